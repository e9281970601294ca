package lessons

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	in := PromptInput{
		Level:   "Junior High School",
		Track:   "Grade 8",
		Subject: "Mathematics",
		Quarter: 2,
		Week:    "Week 3-4",
		MELC:    "Solves problems involving linear equations",
		Code:    "MTH8-Q2-W2",
	}
	p := BuildPrompt(in)

	assert.True(t, strings.HasPrefix(p, "You are a Senior K-12 Curriculum Specialist. Generate a 1500-word comprehensive review module."))
	assert.Contains(t, p, `MELC: "Solves problems involving linear equations" (MTH8-Q2-W2)`)
	assert.Contains(t, p, "LEVEL: Junior High School")
	assert.Contains(t, p, "QUARTER: 2, Week 3-4")
	assert.Contains(t, p, "::: Hard")
	assert.Contains(t, p, "## Mastery Synthesis")
	assert.Contains(t, p, "STUDY_TIPS: Tip 1 [SEP] Tip 2 [SEP] Tip 3")
	assert.Contains(t, p, "VISUAL_PROMPT:")
	assert.NotContains(t, p, "CRITICAL SPFL RULE")
	assert.NotContains(t, p, "EMPHASIZE THIS TOPIC")
}

func TestBuildPrompt_LanguageRule(t *testing.T) {
	tests := []struct {
		track, subject string
		want           bool
	}{
		{"SPFL - Grade 7", "Mandarin", true},
		{"Grade 9", "Language Arts", true},
		{"Grade 9", "Science", false},
	}
	for _, tt := range tests {
		p := BuildPrompt(PromptInput{Track: tt.track, Subject: tt.subject})
		assert.Equal(t, tt.want, strings.Contains(p, "你好 [Nǐ hǎo] (Hello)"), tt.track+"/"+tt.subject)
	}
}

func TestBuildPrompt_Focus(t *testing.T) {
	p := BuildPrompt(PromptInput{Subject: "Science", Focus: "photosynthesis"})
	assert.Contains(t, p, "EMPHASIZE THIS TOPIC: photosynthesis")
}

func TestBuildDefinePrompt_RuneSafe(t *testing.T) {
	ctx := strings.Repeat("é", 501)
	p := buildDefinePrompt("café", ctx)
	assert.Contains(t, p, `"café"`)
	assert.Contains(t, p, strings.Repeat("é", 500)+`..."`)
	assert.NotContains(t, p, strings.Repeat("é", 501))
}
