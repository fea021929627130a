package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		value    *float64
		expected string
	}{
		{name: "nil renders empty", value: nil, expected: ""},
		{name: "zero is explicit", value: floatPtr(0), expected: "0"},
		{name: "integral value", value: floatPtr(3500), expected: "3500"},
		{name: "fractional value", value: floatPtr(0.079), expected: "0.079"},
		{name: "negative value", value: floatPtr(-14.25), expected: "-14.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFloat(tt.value))
		})
	}
}

func TestFormatFloatPrec(t *testing.T) {
	assert.Equal(t, "", FormatFloatPrec(nil, 4))
	assert.Equal(t, "0.0790", FormatFloatPrec(floatPtr(0.079), 4))
	assert.Equal(t, "3500.00", FormatFloatPrec(floatPtr(3500), 2))
}

func TestFormatBool(t *testing.T) {
	assert.Equal(t, "True", FormatBool(true))
	assert.Equal(t, "False", FormatBool(false))
}

func floatPtr(v float64) *float64 { return &v }
