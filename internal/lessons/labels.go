package lessons

import "github.com/abhisek/masterreview/internal/curriculum"

// QuestionLabel is the card heading for mastery questions at a level.
func QuestionLabel(level curriculum.Level) string {
	if level == curriculum.LevelJHS {
		return "Mastery Checkpoint"
	}
	return "Technical Appraisal"
}

// ExampleLabel is the card heading for example scenarios at a level.
func ExampleLabel(level curriculum.Level) string {
	if level == curriculum.LevelSHS {
		return "Academic Case Study"
	}
	return "Discovery Lab Scenario"
}
