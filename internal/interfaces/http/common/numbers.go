package common

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidRating は評価フィルタが 1〜5 の整数でない場合に返す。
var ErrInvalidRating = errors.New("rating must be an integer between 1 and 5")

// ParseRating parses a rating query value. Empty means "no filter".
func ParseRating(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, ErrInvalidRating
	}
	return ValidateRating(parsed)
}

// ValidateRating checks that v is a whole number in [MinRating, MaxRating].
func ValidateRating(v float64) (*float64, error) {
	if math.IsNaN(v) || v != math.Trunc(v) || v < MinRating || v > MaxRating {
		return nil, ErrInvalidRating
	}
	return &v, nil
}

// ParseBool accepts the usual truthy spellings; anything else is false.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
