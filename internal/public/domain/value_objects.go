package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	minScore = 1
	maxScore = 5
)

type Score int

func NewScore(value int) (Score, error) {
	if value < minScore || value > maxScore {
		return 0, fmt.Errorf("score must be between %d and %d", minScore, maxScore)
	}
	return Score(value), nil
}

type OverallScore float64

func NewOverallScore(value float64) (OverallScore, error) {
	if value < minScore || value > maxScore {
		return 0, fmt.Errorf("overall score must be between %d and %d", minScore, maxScore)
	}
	return OverallScore(value), nil
}

func NewLocation(lat, lng float64) (Location, error) {
	if lat < -90 || lat > 90 {
		return Location{}, fmt.Errorf("latitude out of range: %v", lat)
	}
	if lng < -180 || lng > 180 {
		return Location{}, fmt.Errorf("longitude out of range: %v", lng)
	}
	return Location{Lat: lat, Lng: lng}, nil
}

// ParseReviewDate accepts a calendar date (2006-01-02) or a full RFC 3339 timestamp.
func ParseReviewDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("review date is required")
	}
	if t, err := time.Parse("2006-01-02", trimmed); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid review date %q", value)
	}
	return t, nil
}
