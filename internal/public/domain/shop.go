package domain

import (
	"fmt"
	"strings"
)

// VerifiedThreshold は「認証済み」とみなす総合評価の下限。
const VerifiedThreshold = 4.0

// Shop represents a coffee shop in the catalog. Records are read-only once loaded.
type Shop struct {
	ID            string
	Name          string
	Address       string
	Neighborhood  string
	Location      Location
	PriceScore    int
	TasteScore    int
	StrengthScore int
	OverallScore  float64
	Reviews       []Review
}

// Location is a latitude/longitude pair.
type Location struct {
	Lat float64
	Lng float64
}

// Review is a community review attached to a shop. Slice order is display order.
type Review struct {
	ID     string
	Author string
	Text   string
	Date   string
}

// IsVerified reports whether the shop's overall score reaches VerifiedThreshold.
func (s Shop) IsVerified() bool {
	return s.OverallScore >= VerifiedThreshold
}

// Locality は一覧表示用の地名を返す。住所にカンマがあれば先頭要素、なければ地区名。
func (s Shop) Locality() string {
	if head, _, ok := strings.Cut(s.Address, ","); ok {
		return head
	}
	return s.Neighborhood
}

// City は詳細パネル用の都市名を返す。住所にカンマがあれば 2 番目の要素、なければ地区名。
func (s Shop) City() string {
	if _, rest, ok := strings.Cut(s.Address, ","); ok {
		city, _, _ := strings.Cut(rest, ",")
		return strings.TrimSpace(city)
	}
	return s.Neighborhood
}

// Highlights returns short badges derived from the individual scores.
func (s Shop) Highlights() []string {
	tags := make([]string, 0, 3)
	if s.TasteScore >= 5 {
		tags = append(tags, "Specialty")
	}
	if s.StrengthScore >= 5 {
		tags = append(tags, "Extra Strong")
	}
	if s.PriceScore <= 2 {
		tags = append(tags, "Budget Friendly")
	}
	if s.PriceScore >= 4 {
		tags = append(tags, "Premium")
	}
	return tags
}

// Validate checks the invariants every catalog record must satisfy.
func (s Shop) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("shop id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("shop %s: name is required", s.ID)
	}
	if _, err := NewLocation(s.Location.Lat, s.Location.Lng); err != nil {
		return fmt.Errorf("shop %s: %w", s.ID, err)
	}
	for label, value := range map[string]int{
		"price":    s.PriceScore,
		"taste":    s.TasteScore,
		"strength": s.StrengthScore,
	} {
		if _, err := NewScore(value); err != nil {
			return fmt.Errorf("shop %s: %s %w", s.ID, label, err)
		}
	}
	if _, err := NewOverallScore(s.OverallScore); err != nil {
		return fmt.Errorf("shop %s: %w", s.ID, err)
	}
	for _, review := range s.Reviews {
		if strings.TrimSpace(review.ID) == "" {
			return fmt.Errorf("shop %s: review id is required", s.ID)
		}
		if _, err := ParseReviewDate(review.Date); err != nil {
			return fmt.Errorf("shop %s: review %s: %w", s.ID, review.ID, err)
		}
	}
	return nil
}
