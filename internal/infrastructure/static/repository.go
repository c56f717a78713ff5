// Package static supplies the catalog from a YAML document embedded in the binary.
package static

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sngm3741/coffee-hunter/api/internal/public/domain"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// ErrEmptyCatalog is returned when the document contains no shops.
var ErrEmptyCatalog = errors.New("catalog has no shops")

type catalogDocument struct {
	Shops []shopDocument `yaml:"shops"`
}

type shopDocument struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Address      string           `yaml:"address"`
	Neighborhood string           `yaml:"neighborhood"`
	Location     locationDocument `yaml:"location"`
	Scores       scoresDocument   `yaml:"scores"`
	Reviews      []reviewDocument `yaml:"reviews"`
}

type locationDocument struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type scoresDocument struct {
	Price    int     `yaml:"price"`
	Taste    int     `yaml:"taste"`
	Strength int     `yaml:"strength"`
	Overall  float64 `yaml:"overall"`
}

type reviewDocument struct {
	ID     string `yaml:"id"`
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
	Date   string `yaml:"date"`
}

// Repository implements application.ShopRepository over a YAML document.
type Repository struct {
	data []byte
}

// NewRepository returns a repository over the embedded catalog.
func NewRepository() *Repository {
	return &Repository{data: embeddedCatalog}
}

// NewRepositoryFromBytes returns a repository over an arbitrary YAML document.
func NewRepositoryFromBytes(data []byte) *Repository {
	return &Repository{data: data}
}

// All decodes the document and returns its shops in document order.
func (r *Repository) All(_ context.Context) ([]domain.Shop, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(r.data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	if len(doc.Shops) == 0 {
		return nil, ErrEmptyCatalog
	}

	shops := make([]domain.Shop, 0, len(doc.Shops))
	for _, s := range doc.Shops {
		shops = append(shops, mapShopDocument(s))
	}
	return shops, nil
}

func mapShopDocument(doc shopDocument) domain.Shop {
	reviews := make([]domain.Review, 0, len(doc.Reviews))
	for _, r := range doc.Reviews {
		reviews = append(reviews, domain.Review{
			ID:     r.ID,
			Author: r.Author,
			Text:   r.Text,
			Date:   r.Date,
		})
	}
	return domain.Shop{
		ID:            doc.ID,
		Name:          doc.Name,
		Address:       doc.Address,
		Neighborhood:  doc.Neighborhood,
		Location:      domain.Location{Lat: doc.Location.Lat, Lng: doc.Location.Lng},
		PriceScore:    doc.Scores.Price,
		TasteScore:    doc.Scores.Taste,
		StrengthScore: doc.Scores.Strength,
		OverallScore:  doc.Scores.Overall,
		Reviews:       reviews,
	}
}
