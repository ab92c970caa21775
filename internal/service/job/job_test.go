package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MatchScore(t *testing.T) {
	tests := []struct {
		name       string
		userSkills []string
		jobSkills  []string
		want       int
	}{
		{
			name:       "full overlap",
			userSkills: []string{"go", "postgres", "react"},
			jobSkills:  []string{"go", "postgres"},
			want:       100,
		},
		{
			name:       "half overlap",
			userSkills: []string{"go"},
			jobSkills:  []string{"go", "kubernetes"},
			want:       50,
		},
		{
			name:       "no overlap",
			userSkills: []string{"wordpress"},
			jobSkills:  []string{"go", "kubernetes"},
			want:       0,
		},
		{
			name:       "case and whitespace insensitive",
			userSkills: []string{" Go ", "PostgreSQL"},
			jobSkills:  []string{"go", "postgresql"},
			want:       100,
		},
		{
			name:       "job without skills cannot match",
			userSkills: []string{"go"},
			jobSkills:  nil,
			want:       0,
		},
		{
			name:       "empty profile cannot match",
			userSkills: nil,
			jobSkills:  []string{"go"},
			want:       0,
		},
		{
			name:       "one of three",
			userSkills: []string{"figma"},
			jobSkills:  []string{"figma", "sketch", "illustrator"},
			want:       33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchScore(tt.userSkills, tt.jobSkills))
		})
	}
}
