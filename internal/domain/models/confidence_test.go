package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		name     string
		step     int
		keywords []string
		expected int
	}{
		{name: "nothing detected", step: 0, keywords: nil, expected: 0},
		{name: "single keyword", step: 0, keywords: []string{"otp"}, expected: 15},
		{name: "keywords plus step", step: 2, keywords: []string{"otp", "kyc", "http"}, expected: 55},
		{name: "clamped to 100", step: 4, keywords: make([]string, 7), expected: 100},
		{name: "step alone", step: 3, keywords: nil, expected: 15},
		{name: "negative step clamps", step: -2, keywords: []string{"otp"}, expected: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Confidence(tt.step, tt.keywords))
		})
	}
}

func TestConfidence_Bounds(t *testing.T) {
	for step := -1; step <= 10; step++ {
		for n := 0; n <= 10; n++ {
			c := Confidence(step, make([]string, n))
			assert.GreaterOrEqual(t, c, 0)
			assert.LessOrEqual(t, c, 100)
		}
	}
}

func TestConfidence_MonotonicInStep(t *testing.T) {
	keywords := []string{"otp", "account"}
	prev := Confidence(0, keywords)
	for step := 1; step <= MaxStep; step++ {
		c := Confidence(step, keywords)
		assert.GreaterOrEqual(t, c, prev)
		prev = c
	}
}
