package curriculum

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type subjectSpec struct {
	Name     string   `yaml:"name"`
	Icon     string   `yaml:"icon"`
	Desc     string   `yaml:"desc"`
	Code     string   `yaml:"code"`
	Semester int      `yaml:"semester"`
	Category Category `yaml:"-"`
}

type weekSpec struct {
	Name string `yaml:"name"`
	MELC string `yaml:"melc"`
}

// quarterSpec lists the weeks of one quarter; the quarter number is its
// position in the enclosing list.
type quarterSpec []weekSpec

type programSpec struct {
	Program string         `yaml:"program"`
	Kind    string         `yaml:"kind"`
	Grades  map[int]string `yaml:"grades"`
}

type journalismSpec struct {
	Grade    int           `yaml:"grade"`
	Name     string        `yaml:"name"`
	Desc     string        `yaml:"desc"`
	Icon     string        `yaml:"icon"`
	Quarters []quarterSpec `yaml:"quarters"`
}

type languageSpec struct {
	Name  string                `yaml:"name"`
	Desc  string                `yaml:"desc"`
	Icon  string                `yaml:"icon"`
	MELCs map[int][]quarterSpec `yaml:"melcs"`
}

type shsTrackSpec struct {
	Name     string        `yaml:"name"`
	Category Category      `yaml:"category"`
	Subjects []subjectSpec `yaml:"subjects"`
}

type catalogData struct {
	JHS struct {
		Grades   []int         `yaml:"grades"`
		Subjects []subjectSpec `yaml:"subjects"`
	} `yaml:"jhs"`
	Specialized []programSpec            `yaml:"specialized"`
	SubjectSets map[string][]subjectSpec `yaml:"subject_sets"`
	Journalism  []journalismSpec         `yaml:"journalism"`
	Languages   []languageSpec           `yaml:"languages"`
	SHS         []shsTrackSpec           `yaml:"shs"`
}

func decodeCatalog(data []byte) (*catalogData, error) {
	var raw catalogData
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if len(raw.JHS.Grades) == 0 || len(raw.JHS.Subjects) == 0 {
		return nil, fmt.Errorf("decoding catalog: jhs section is empty")
	}
	return &raw, nil
}
