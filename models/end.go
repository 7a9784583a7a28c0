// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	TotalEnds    = 12
	ArrowsPerEnd = 3
)

// End holds the tokens for arrow1..arrow3 of one end. "" means not yet shot.
type End [ArrowsPerEnd]string

// legacy object keys, in arrow order
var endObjectKeys = [ArrowsPerEnd][]string{
	{"arrow1", "a1", "1"},
	{"arrow2", "a2", "2"},
	{"arrow3", "a3", "3"},
}

// UnmarshalJSON accepts the canonical triple as well as the older
// {"arrow1":..,"arrow2":..,"arrow3":..} object. Numbers are read as numerals.
func (e *End) UnmarshalJSON(data []byte) error {
	*e = End{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '[':
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if len(raw) > ArrowsPerEnd {
			return fmt.Errorf("end has %d arrows, want at most %d", len(raw), ArrowsPerEnd)
		}
		for i, v := range raw {
			tok, err := tokenString(v)
			if err != nil {
				return err
			}
			e[i] = tok
		}
		return nil

	case '{':
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		for i, keys := range endObjectKeys {
			for _, k := range keys {
				v, ok := raw[k]
				if !ok {
					continue
				}
				tok, err := tokenString(v)
				if err != nil {
					return err
				}
				e[i] = tok
				break
			}
		}
		return nil
	}

	return fmt.Errorf("unsupported end encoding: %s", data)
}

func tokenString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported arrow value %v", v)
	}
}

// Scorecard maps end number (1..TotalEnds) to End.
type Scorecard map[int]End

// UnmarshalJSON accepts an object keyed by end number or a plain array
// where index 0 is end 1.
func (s *Scorecard) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	out := Scorecard{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = out
		return nil
	}

	if data[0] == '[' {
		var ends []End
		if err := json.Unmarshal(data, &ends); err != nil {
			return err
		}
		for i, e := range ends {
			out[i+1] = e
		}
		*s = out
		return nil
	}

	var byKey map[string]End
	if err := json.Unmarshal(data, &byKey); err != nil {
		return err
	}
	for k, e := range byKey {
		n, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("invalid end number %q", k)
		}
		out[n] = e
	}
	*s = out
	return nil
}

// End returns the tokens for end n, empty when nothing was recorded.
func (s Scorecard) End(n int) End {
	return s[n]
}

// NewScorecard returns a scorecard with every end present and unshot.
func NewScorecard() Scorecard {
	s := make(Scorecard, TotalEnds)
	for n := 1; n <= TotalEnds; n++ {
		s[n] = End{}
	}
	return s
}
