package application

import (
	"context"
	"errors"

	"github.com/sngm3741/coffee-hunter/api/internal/public/domain"
)

// ErrShopNotFound is returned when a shop id does not resolve in the catalog.
var ErrShopNotFound = errors.New("shop not found")

// ShopRepository は起動時にカタログ全体を読み込むためのポート。
// 返却順がそのままカタログ順になる。
type ShopRepository interface {
	All(ctx context.Context) ([]domain.Shop, error)
}

// ShopQueryService describes stateless read use-cases over the catalog.
// ShopQueryService はセッションを持たない一覧・詳細参照のリーダーモデル。
type ShopQueryService interface {
	List(criteria FilterCriteria) []domain.Shop
	Detail(id string) (domain.Shop, error)
	Total() int
}

// shopQueryService is the concrete implementation of ShopQueryService.
type shopQueryService struct {
	catalog *Catalog
}

// NewShopQueryService creates a query service bound to an immutable catalog.
func NewShopQueryService(catalog *Catalog) ShopQueryService {
	return &shopQueryService{catalog: catalog}
}

func (s *shopQueryService) List(criteria FilterCriteria) []domain.Shop {
	return Derive(s.catalog, criteria)
}

func (s *shopQueryService) Detail(id string) (domain.Shop, error) {
	shop, ok := s.catalog.ByID(id)
	if !ok {
		return domain.Shop{}, ErrShopNotFound
	}
	return shop, nil
}

func (s *shopQueryService) Total() int {
	return s.catalog.Len()
}
