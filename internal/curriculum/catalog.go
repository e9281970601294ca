package curriculum

import (
	"fmt"
	"strings"
	"sync"
)

// Catalog is the immutable set of tracks shipped with the binary.
type Catalog struct {
	tracks []Track
	byID   map[string]int
}

// Load parses the embedded catalog data and builds every track.
func Load() (*Catalog, error) {
	return load(catalogYAML)
}

func load(data []byte) (*Catalog, error) {
	raw, err := decodeCatalog(data)
	if err != nil {
		return nil, err
	}
	tracks, err := build(raw)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	return New(tracks)
}

// New builds a catalog from explicit tracks. Track ids must be unique.
func New(tracks []Track) (*Catalog, error) {
	c := &Catalog{tracks: tracks, byID: make(map[string]int, len(tracks))}
	for i, t := range tracks {
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate track id %q", t.ID)
		}
		c.byID[t.ID] = i
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog built from the embedded data.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load()
		if err != nil {
			panic(fmt.Sprintf("curriculum: embedded catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Tracks returns all tracks in catalog order.
func (c *Catalog) Tracks() []Track {
	return c.tracks
}

// Track looks up a track by id.
func (c *Catalog) Track(id string) (Track, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Track{}, false
	}
	return c.tracks[i], true
}

// Subject looks up a subject within a track.
func (c *Catalog) Subject(trackID, subjectID string) (Track, Subject, error) {
	t, ok := c.Track(trackID)
	if !ok {
		return Track{}, Subject{}, fmt.Errorf("track %q: %w", trackID, ErrNotFound)
	}
	for _, s := range t.Subjects {
		if s.ID == subjectID {
			return t, s, nil
		}
	}
	return Track{}, Subject{}, fmt.Errorf("subject %q in track %q: %w", subjectID, trackID, ErrNotFound)
}

// TracksByLevel returns the tracks of one level in catalog order.
func (c *Catalog) TracksByLevel(level Level) []Track {
	var out []Track
	for _, t := range c.tracks {
		if t.Level == level {
			out = append(out, t)
		}
	}
	return out
}

var programNames = map[string]string{
	"spa":   "Arts (SPA)",
	"spj":   "Journalism (SPJ)",
	"sps":   "Sports (SPS)",
	"spfl":  "Foreign Language (SPFL)",
	"sptve": "Tech-Voc (SPTVE)",
	"ste":   "Science (STE)",
}

// ProgramName returns the display name for a specialized program prefix.
func ProgramName(prefix string) string {
	if name, ok := programNames[prefix]; ok {
		return name
	}
	return strings.ToUpper(prefix)
}

// SpecializedPrograms groups specialized tracks by id prefix, keeping the
// order in which each program first appears.
func (c *Catalog) SpecializedPrograms() []Program {
	var programs []Program
	index := make(map[string]int)
	for _, t := range c.TracksByLevel(LevelSpecialized) {
		prefix, _, _ := strings.Cut(t.ID, "-")
		i, ok := index[prefix]
		if !ok {
			i = len(programs)
			index[prefix] = i
			programs = append(programs, Program{Prefix: prefix, Name: ProgramName(prefix)})
		}
		programs[i].Tracks = append(programs[i].Tracks, t)
	}
	return programs
}

// Unit resolves a week selection.
func (c *Catalog) Unit(trackID, subjectID string, quarter int, weekName string) (Unit, error) {
	t, s, err := c.Subject(trackID, subjectID)
	if err != nil {
		return Unit{}, err
	}
	for _, q := range s.Quarters {
		if q.Number != quarter {
			continue
		}
		for _, w := range q.Weeks {
			if w.Name == weekName {
				return Unit{Track: t, Subject: s, Quarter: quarter, Week: w}, nil
			}
		}
		return Unit{}, fmt.Errorf("week %q in quarter %d: %w", weekName, quarter, ErrNotFound)
	}
	return Unit{}, fmt.Errorf("quarter %d of %q: %w", quarter, subjectID, ErrNotFound)
}

// Siblings returns the subjects before and after subjectID in its track.
// Either is nil at the ends of the list.
func (c *Catalog) Siblings(trackID, subjectID string) (prev, next *Subject) {
	t, ok := c.Track(trackID)
	if !ok {
		return nil, nil
	}
	for i := range t.Subjects {
		if t.Subjects[i].ID != subjectID {
			continue
		}
		if i > 0 {
			prev = &t.Subjects[i-1]
		}
		if i < len(t.Subjects)-1 {
			next = &t.Subjects[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// Units flattens every week of a subject into resolved units.
func (c *Catalog) Units(trackID, subjectID string) ([]Unit, error) {
	t, s, err := c.Subject(trackID, subjectID)
	if err != nil {
		return nil, err
	}
	var units []Unit
	for _, q := range s.Quarters {
		for _, w := range q.Weeks {
			units = append(units, Unit{Track: t, Subject: s, Quarter: q.Number, Week: w})
		}
	}
	return units, nil
}
