package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain object untouched",
			input: `{"score": 80}`,
			want:  `{"score": 80}`,
		},
		{
			name:  "fenced json block",
			input: "```json\n{\"score\": 80}\n```",
			want:  `{"score": 80}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"score\": 80}\n```",
			want:  `{"score": 80}`,
		},
		{
			name:  "prose around object",
			input: "Here is the result:\n{\"score\": 80}\nHope that helps!",
			want:  `{"score": 80}`,
		},
		{
			name:  "no braces",
			input: "I cannot answer that.",
			want:  "I cannot answer that.",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.input))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Score float64 `json:"score"`
	}

	err := decodeJSON("```json\n{\"score\": 72.5}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, 72.5, out.Score)

	err = decodeJSON("", &out)
	assert.Error(t, err)

	err = decodeJSON("not json at all", &out)
	assert.Error(t, err)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-5, 0, 100))
	assert.Equal(t, 100.0, clamp(250, 0, 100))
	assert.Equal(t, 42.0, clamp(42, 0, 100))
}
