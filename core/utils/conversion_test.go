package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"45", 45, true},
		{" 30 ", 30, true},
		{"45 min", 45, true},
		{"60mins", 60, true},
		{"", 0, false},
		{"half hour", 0, false},
		{"-30", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMinutes(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringValue(t *testing.T) {
	s := "Ms. Lee"
	assert.Equal(t, "Ms. Lee", StringValue(&s))
	assert.Equal(t, "", StringValue(nil))
}
