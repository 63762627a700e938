package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimmed(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{name: "trims whitespace", input: []string{"  aptitude ", "hr  "}, expected: []string{"aptitude", "hr"}},
		{name: "keeps first occurrence", input: []string{"technical", "hr", "technical"}, expected: []string{"technical", "hr"}},
		{name: "drops blanks", input: []string{"", "  ", "hr"}, expected: []string{"hr"}},
		{name: "duplicates after trimming", input: []string{" hr", "hr ", "hr"}, expected: []string{"hr"}},
		{name: "case sensitive", input: []string{"HR", "hr"}, expected: []string{"HR", "hr"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Trimmed(tt.input))
		})
	}
}

func TestValues(t *testing.T) {
	type recipient struct {
		ID   string
		Kind string
	}
	in := []recipient{{"stu-1", "student"}, {"rec-1", "recruiter"}, {"stu-1", "student"}, {"stu-1", "recruiter"}}
	assert.Equal(t, []recipient{{"stu-1", "student"}, {"rec-1", "recruiter"}, {"stu-1", "recruiter"}}, Values(in))

	single := []int{7}
	assert.Equal(t, single, Values(single))
}
