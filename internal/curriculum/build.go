package curriculum

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

func dashed(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(s), "-")
}

// placeholderWeeks returns the generic four-week quarter used when no
// explicit competencies exist for a subject.
func placeholderWeeks(subject, level, codePrefix string, quarter int) []Week {
	melcs := []string{
		fmt.Sprintf("Foundational concepts and primary competencies in %s as defined by DepEd %s Curriculum Guide.", subject, level),
		fmt.Sprintf("Critical analysis and application of %s principles in academic and real-world contexts.", subject),
		fmt.Sprintf("Advanced development of specialized skills and competency-based projects in %s.", subject),
		fmt.Sprintf("Comprehensive synthesis of learning and performance task review for %s.", subject),
	}
	weeks := make([]Week, len(melcs))
	for i, melc := range melcs {
		weeks[i] = Week{
			Name: fmt.Sprintf("Week %d-%d", 2*i+1, 2*i+2),
			MELC: melc,
			Code: fmt.Sprintf("%s-Q%d-W%d", codePrefix, quarter, i+1),
		}
	}
	return weeks
}

func placeholderQuarters(subject, level, codePrefix string) []Quarter {
	quarters := make([]Quarter, 4)
	for q := range quarters {
		quarters[q] = Quarter{Number: q + 1, Weeks: placeholderWeeks(subject, level, codePrefix, q+1)}
	}
	return quarters
}

func explicitQuarters(specs []quarterSpec, codePrefix string) []Quarter {
	quarters := make([]Quarter, len(specs))
	for q, qs := range specs {
		weeks := make([]Week, len(qs))
		for i, w := range qs {
			weeks[i] = Week{
				Name: w.Name,
				MELC: w.MELC,
				Code: fmt.Sprintf("%s-Q%d-W%d", codePrefix, q+1, i+1),
			}
		}
		quarters[q] = Quarter{Number: q + 1, Weeks: weeks}
	}
	return quarters
}

func buildJHS(raw *catalogData) []Track {
	var tracks []Track
	for _, g := range raw.JHS.Grades {
		level := fmt.Sprintf("JHS Grade %d", g)
		t := Track{ID: fmt.Sprintf("jhs-%d", g), Name: level, Level: LevelJHS}
		for _, s := range raw.JHS.Subjects {
			code := fmt.Sprintf("%s%d", s.Code, g)
			t.Subjects = append(t.Subjects, Subject{
				ID:          fmt.Sprintf("jhs%d-%s", g, strings.ToLower(s.Name)),
				Name:        s.Name,
				Description: s.Desc,
				Icon:        s.Icon,
				Quarters:    placeholderQuarters(s.Name, level, code),
			})
		}
		tracks = append(tracks, t)
	}
	return tracks
}

func buildGradeTrack(program string, grade int, subjects []subjectSpec) Track {
	prefix := strings.ToLower(program)
	t := Track{
		ID:    fmt.Sprintf("%s-g%d", dashed(program), grade),
		Name:  fmt.Sprintf("%s - Grade %d", program, grade),
		Level: LevelSpecialized,
	}
	for _, s := range subjects {
		t.Subjects = append(t.Subjects, Subject{
			ID:          fmt.Sprintf("%s-g%d-%s", prefix, grade, dashed(s.Name)),
			Name:        s.Name,
			Description: s.Desc,
			Icon:        s.Icon,
			Semester:    s.Semester,
			Quarters:    placeholderQuarters(s.Name, program, fmt.Sprintf("%s%d", s.Code, grade)),
		})
	}
	return t
}

func buildJournalismTrack(raw journalismSpec) Track {
	code := fmt.Sprintf("SPJ%d", raw.Grade)
	quarters := explicitQuarters(raw.Quarters, code)
	if len(quarters) == 0 {
		quarters = placeholderQuarters("Journalism", fmt.Sprintf("Grade %d", raw.Grade), code)
	}
	return Track{
		ID:    fmt.Sprintf("spj-g%d", raw.Grade),
		Name:  fmt.Sprintf("SPJ - Grade %d", raw.Grade),
		Level: LevelSpecialized,
		Subjects: []Subject{{
			ID:          fmt.Sprintf("spj-g%d-journalism", raw.Grade),
			Name:        raw.Name,
			Description: raw.Desc,
			Icon:        raw.Icon,
			Quarters:    quarters,
		}},
	}
}

func languageCode(lang string, grade int) string {
	abbr := lang
	if len(abbr) > 3 {
		abbr = abbr[:3]
	}
	return fmt.Sprintf("SPFL-%s%d", strings.ToUpper(abbr), grade)
}

func buildLanguageTrack(langs []languageSpec, grade int) Track {
	t := Track{
		ID:    fmt.Sprintf("spfl-g%d", grade),
		Name:  fmt.Sprintf("SPFL - Grade %d", grade),
		Level: LevelSpecialized,
	}
	for _, l := range langs {
		code := languageCode(l.Name, grade)
		quarters := explicitQuarters(l.MELCs[grade], code)
		if len(quarters) == 0 {
			quarters = placeholderQuarters(l.Name+" Language", fmt.Sprintf("SPFL Grade %d", grade), code)
		}
		t.Subjects = append(t.Subjects, Subject{
			ID:          fmt.Sprintf("spfl-g%d-%s", grade, strings.ToLower(l.Name)),
			Name:        l.Name,
			Description: l.Desc,
			Icon:        l.Icon,
			Quarters:    quarters,
		})
	}
	return t
}

var programGrades = []int{7, 8, 9, 10}

func buildSpecialized(raw *catalogData) ([]Track, error) {
	var tracks []Track
	for _, p := range raw.Specialized {
		switch p.Kind {
		case "journalism":
			byGrade := make(map[int]journalismSpec, len(raw.Journalism))
			for _, j := range raw.Journalism {
				byGrade[j.Grade] = j
			}
			for _, g := range programGrades {
				j, ok := byGrade[g]
				if !ok {
					return nil, fmt.Errorf("program %s: no journalism entry for grade %d", p.Program, g)
				}
				tracks = append(tracks, buildJournalismTrack(j))
			}
		case "language":
			for _, g := range programGrades {
				tracks = append(tracks, buildLanguageTrack(raw.Languages, g))
			}
		case "", "grade":
			grades := make([]int, 0, len(p.Grades))
			for g := range p.Grades {
				grades = append(grades, g)
			}
			sort.Ints(grades)
			for _, g := range grades {
				set, ok := raw.SubjectSets[p.Grades[g]]
				if !ok {
					return nil, fmt.Errorf("program %s grade %d: unknown subject set %q", p.Program, g, p.Grades[g])
				}
				tracks = append(tracks, buildGradeTrack(p.Program, g, set))
			}
		default:
			return nil, fmt.Errorf("program %s: unknown kind %q", p.Program, p.Kind)
		}
	}
	return tracks, nil
}

func buildSHS(raw *catalogData) []Track {
	var tracks []Track
	for _, ts := range raw.SHS {
		t := Track{
			ID:    "shs-" + dashed(ts.Name),
			Name:  "SHS: " + ts.Name,
			Level: LevelSHS,
		}
		for _, s := range ts.Subjects {
			t.Subjects = append(t.Subjects, Subject{
				ID:          fmt.Sprintf("shs-%s-%s", strings.ToLower(ts.Name), dashed(s.Name)),
				Name:        s.Name,
				Description: s.Desc,
				Icon:        s.Icon,
				Category:    ts.Category,
				Semester:    s.Semester,
				Quarters:    placeholderQuarters(s.Name, "SHS", s.Code),
			})
		}
		tracks = append(tracks, t)
	}
	return tracks
}

func build(raw *catalogData) ([]Track, error) {
	tracks := buildJHS(raw)
	specialized, err := buildSpecialized(raw)
	if err != nil {
		return nil, err
	}
	tracks = append(tracks, specialized...)
	tracks = append(tracks, buildSHS(raw)...)
	return tracks, nil
}
