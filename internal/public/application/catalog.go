package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sngm3741/coffee-hunter/api/internal/public/domain"
)

// ErrDuplicateShop is returned when two catalog records share an id.
var ErrDuplicateShop = errors.New("duplicate shop id")

// Catalog is the immutable, ordered collection of shops known to the process.
type Catalog struct {
	shops []domain.Shop
	index map[string]int
}

// NewCatalog validates the records and freezes them in the given order.
func NewCatalog(shops []domain.Shop) (*Catalog, error) {
	c := &Catalog{
		shops: make([]domain.Shop, 0, len(shops)),
		index: make(map[string]int, len(shops)),
	}
	for _, shop := range shops {
		if err := shop.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.index[shop.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateShop, shop.ID)
		}
		c.index[shop.ID] = len(c.shops)
		c.shops = append(c.shops, cloneShop(shop))
	}
	return c, nil
}

// LoadCatalog reads every shop from repo once and builds the catalog.
func LoadCatalog(ctx context.Context, repo ShopRepository) (*Catalog, error) {
	shops, err := repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return NewCatalog(shops)
}

// Shops returns a copy of the catalog sequence.
func (c *Catalog) Shops() []domain.Shop {
	out := make([]domain.Shop, 0, len(c.shops))
	for _, shop := range c.shops {
		out = append(out, cloneShop(shop))
	}
	return out
}

// ByID looks a shop up by id.
func (c *Catalog) ByID(id string) (domain.Shop, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.Shop{}, false
	}
	return cloneShop(c.shops[i]), true
}

// Len returns the number of shops in the catalog.
func (c *Catalog) Len() int {
	return len(c.shops)
}

// cloneShop は Reviews を複製し、カタログ外からの変更が内部状態に届かないようにする。
func cloneShop(shop domain.Shop) domain.Shop {
	if shop.Reviews != nil {
		shop.Reviews = append([]domain.Review{}, shop.Reviews...)
	}
	return shop
}
