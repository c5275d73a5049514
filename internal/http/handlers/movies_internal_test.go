package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLimit(t *testing.T) {
	tests := map[string]int{
		"":     10,
		"0":    10,
		"-5":   10,
		"x":    10,
		"1":    1,
		"42":   42,
		"100":  100,
		"101":  100,
		"9999": 100,
		"5abc": 5,
		" 7":   7,
		"+12":  12,
		"007":  7,
		"1e3":  1,
		"3.9":  3,
		"-5x":  10,
		"abc5": 10,
		"99999999999999999999": 100,
	}
	for raw, want := range tests {
		assert.Equal(t, want, parseLimit(raw), "limit %q", raw)
	}
}
