// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScoreValue(t *testing.T) {
	tests := []struct {
		token string
		want  int
	}{
		{"X", 10},
		{"x", 10},
		{" X ", 10},
		{"M", 0},
		{"m", 0},
		{"7", 7},
		{"10", 10},
		{"0", 0},
		{"07", 7},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"11", 0},
		{"-1", 0},
		{"9.5", 0},
		{"XX", 0},
	}

	for _, tt := range tests {
		t.Run(strconv.Quote(tt.token), func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScoreValue(tt.token))
		})
	}
}

func TestParseScoreValue_AlwaysInRange(t *testing.T) {
	inputs := []string{"", "X", "M", "-100", "100", "1e3", "0x0A", "ten", "\t5\n", "+3"}
	for i := -5; i <= 15; i++ {
		inputs = append(inputs, strconv.Itoa(i))
	}

	for _, in := range inputs {
		v := ParseScoreValue(in)
		assert.GreaterOrEqual(t, v, MinPoints, "input %q", in)
		assert.LessOrEqual(t, v, MaxPoints, "input %q", in)
	}
}

func TestIsValidScoreInput(t *testing.T) {
	valid := []string{"", "x", "X", "m", "M"}
	for i := 0; i <= 10; i++ {
		valid = append(valid, strconv.Itoa(i))
	}
	for _, tok := range valid {
		assert.True(t, IsValidScoreInput(tok), "expected %q to be valid", tok)
	}

	invalid := []string{"11", "-1", "abc", "XM", "1.5", "100"}
	for _, tok := range invalid {
		assert.False(t, IsValidScoreInput(tok), "expected %q to be invalid", tok)
	}
}

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		collapse bool
		want     string
	}{
		{"lowercase x", "x", false, "X"},
		{"lowercase m", "m", false, "M"},
		{"ten preserved", "10", false, "10"},
		{"ten collapsed", "10", true, "X"},
		{"leading zero", "07", false, "7"},
		{"whitespace", " 9 ", false, "9"},
		{"invalid", "abc", false, ""},
		{"out of range", "11", true, ""},
		{"empty", "", true, ""},
		{"x unaffected by collapse", "X", true, "X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeToken(tt.token, tt.collapse))
		})
	}
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "10", FormatScore(10, false))
	assert.Equal(t, "X", FormatScore(10, true))
	assert.Equal(t, "M", FormatScore(0, false))
	assert.Equal(t, "5", FormatScore(5, true))
	assert.Equal(t, "", FormatScore(11, false))
	assert.Equal(t, "", FormatScore(-1, false))
}

func TestColorClass(t *testing.T) {
	tests := []struct {
		token string
		want  Tier
	}{
		{"X", TierGold},
		{"10", TierGold},
		{"9", TierGold},
		{"8", TierRed},
		{"7", TierRed},
		{"6", TierBlue},
		{"5", TierBlue},
		{"4", TierBlack},
		{"3", TierBlack},
		{"2", TierWhite},
		{"1", TierWhite},
		{"M", TierMiss},
		{"0", TierMiss},
		{"abc", TierMiss},
		{"", TierEmpty},
		{" ", TierEmpty},
	}

	for _, tt := range tests {
		t.Run(strconv.Quote(tt.token), func(t *testing.T) {
			assert.Equal(t, tt.want, ColorClass(tt.token))
		})
	}
}

func TestColorClass_GoldMatchesPoints(t *testing.T) {
	tokens := []string{"X", "M"}
	for i := 0; i <= 10; i++ {
		tokens = append(tokens, strconv.Itoa(i))
	}

	for _, tok := range tokens {
		p := ParseScoreValue(tok)
		gold := ColorClass(tok) == TierGold
		assert.Equal(t, p == 9 || p == 10, gold, "token %q", tok)
	}
}
