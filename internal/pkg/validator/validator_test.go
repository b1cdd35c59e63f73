package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCPF(t *testing.T) {
	assert.Equal(t, "11122233344", NormalizeCPF("111.222.333-44"))
	assert.Equal(t, "11122233344", NormalizeCPF("11122233344"))
	assert.Equal(t, "11122233344", NormalizeCPF(" 111 222 333 44 "))
	assert.Equal(t, "", NormalizeCPF("abc"))
}

func TestIsValidCPF(t *testing.T) {
	assert.True(t, IsValidCPF("111.222.333-44"))
	assert.False(t, IsValidCPF("1112223334"))
	assert.False(t, IsValidCPF(""))
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"2025-10-03", "2025-10-03", true},
		{"2025-10-03T08:15:00", "2025-10-03", true},
		{"03/10/2025", "2025-10-03", true},
		{"31/02/2025", "", false},
		{"2025-1-3", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeDate(c.input)
		assert.Equal(t, c.ok, ok, "input %q", c.input)
		if c.ok {
			assert.Equal(t, c.want, got, "input %q", c.input)
		}
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
}
