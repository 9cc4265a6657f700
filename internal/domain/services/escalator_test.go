package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/pkg/logger"
)

func TestPressureEscalator_Advance(t *testing.T) {
	log := logger.NewDevelopment()
	e := NewPressureEscalator(NewNormalizer(log), log)

	tests := []struct {
		name     string
		step     int
		message  string
		expected int
	}{
		{
			name:     "otp demand escalates",
			step:     0,
			message:  "Share the OTP right away",
			expected: 1,
		},
		{
			name:     "payment demand escalates",
			step:     2,
			message:  "You must transfer the processing fee first",
			expected: 3,
		},
		{
			name:     "small talk does not escalate",
			step:     2,
			message:  "Hello, how is the weather there?",
			expected: 2,
		},
		{
			name:     "ceiling saturates",
			step:     models.MaxStep,
			message:  "URGENT: pay immediately or lose your account",
			expected: models.MaxStep,
		},
		{
			name:     "negative step clamps before advancing",
			step:     -3,
			message:  "verify your bank account",
			expected: 1,
		},
		{
			name:     "empty message never escalates",
			step:     1,
			message:  "",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Advance(tt.step, tt.message))
		})
	}
}

func TestPressureEscalator_SaturatesUnderSustainedPressure(t *testing.T) {
	log := logger.NewDevelopment()
	e := NewPressureEscalator(NewNormalizer(log), log)

	step := 0
	for i := 0; i < 10; i++ {
		step = e.Advance(step, "pay the fee immediately, this is urgent")
		assert.LessOrEqual(t, step, models.MaxStep)
	}
	assert.Equal(t, models.MaxStep, step)
}

func TestPressureEscalator_NeverDecreases(t *testing.T) {
	log := logger.NewDevelopment()
	e := NewPressureEscalator(NewNormalizer(log), log)

	for step := 0; step <= models.MaxStep; step++ {
		next := e.Advance(step, "nothing suspicious here")
		assert.GreaterOrEqual(t, next, step)
	}
}
