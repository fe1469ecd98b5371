package postal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"K1A 0A6", true},
		{"K1A0A6", true},
		{"k1a0a6", true},
		{"k1a  0a6", true},
		{" M5V 3L9 ", true},
		{"12345", false},
		{"K1A 0A", false},
		{"KKA 0A6", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValid(tt.input), "input %q", tt.input)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "K1A0A6", Normalize("k1a0a6"))
	assert.Equal(t, "K1A0A6", Normalize("K1A 0A6"))
	assert.Equal(t, "M5V3L9", Normalize(" m5v 3l9 "))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "K1A 0A6", Format("k1a0a6"))
	assert.Equal(t, "K1A 0A6", Format("K1A 0A6"))
	assert.Equal(t, "M5V", Format("m5v"))
}

func TestFormatNormalizeIdempotent(t *testing.T) {
	inputs := []string{"k1a0a6", "K1A 0A6", "m5v3l9", "H0H 0H0", "v6b 2w9"}

	for _, in := range inputs {
		once := Format(Normalize(in))
		twice := Format(Normalize(Format(Normalize(in))))
		assert.Equal(t, once, twice, "input %q", in)
	}
}
