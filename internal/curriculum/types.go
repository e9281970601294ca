package curriculum

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a track, subject, quarter or week does not
// exist in the catalog.
var ErrNotFound = errors.New("not found in catalog")

// Level is an educational stage.
type Level string

const (
	LevelJHS         Level = "Junior High School"
	LevelSpecialized Level = "Specialized Curricular Programs"
	LevelSHS         Level = "Senior High School"
)

// Levels lists every level in display order.
var Levels = []Level{LevelJHS, LevelSpecialized, LevelSHS}

// ParseLevel accepts a short code (jhs, specialized, shs) or the full name.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jhs", "junior", strings.ToLower(string(LevelJHS)):
		return LevelJHS, nil
	case "specialized", "spec", "scp", strings.ToLower(string(LevelSpecialized)):
		return LevelSpecialized, nil
	case "shs", "senior", strings.ToLower(string(LevelSHS)):
		return LevelSHS, nil
	}
	return "", fmt.Errorf("unknown level %q (want jhs, specialized or shs)", s)
}

// Category classifies senior high subjects.
type Category string

const (
	CategoryNone        Category = ""
	CategoryCore        Category = "Core"
	CategoryApplied     Category = "Applied"
	CategorySpecialized Category = "Specialized"
)

// Track is a grade, program or strand grouping of subjects.
type Track struct {
	ID       string
	Name     string
	Level    Level
	Subjects []Subject
}

// Subject is a course with four quarters of weekly competencies.
type Subject struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    Category
	// Semester is 1 or 2 for senior high subjects bound to a semester, 0 otherwise.
	Semester int
	Quarters []Quarter
}

// Quarter is a grading period.
type Quarter struct {
	Number int
	Weeks  []Week
}

// Week is a study unit spanning one or more calendar weeks.
type Week struct {
	Name string
	// MELC is the Most Essential Learning Competency for the week.
	MELC string
	Code string
}

// Unit is a fully resolved selection of a week within the catalog.
type Unit struct {
	Track   Track
	Subject Subject
	Quarter int
	Week    Week
}

// Key is the storage key for the unit's lesson.
func (u Unit) Key() string {
	return LessonKey(u.Track.ID, u.Subject.ID, u.Quarter, u.Week.Name)
}

// LessonKey builds a storage key from its parts.
func LessonKey(trackID, subjectID string, quarter int, week string) string {
	return fmt.Sprintf("%s-%s-%d-%s", trackID, subjectID, quarter, week)
}

// Program is a group of specialized tracks sharing an id prefix.
type Program struct {
	Prefix string
	Name   string
	Tracks []Track
}

// IsLanguageTrack reports whether lessons for the track need foreign
// language treatment.
func IsLanguageTrack(track, subject string) bool {
	return strings.Contains(track, "SPFL") || strings.Contains(subject, "Language")
}
