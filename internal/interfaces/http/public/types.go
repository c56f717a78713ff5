package public

import (
	"time"

	"github.com/sngm3741/coffee-hunter/api/internal/public/application"
	"github.com/sngm3741/coffee-hunter/api/internal/public/domain"
	"github.com/sngm3741/coffee-hunter/api/internal/public/mapview"
	"github.com/sngm3741/coffee-hunter/api/internal/public/session"
)

const (
	viewList   = "list"
	viewDetail = "detail"
)

type locationPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type scoresPayload struct {
	Price    int     `json:"price"`
	Taste    int     `json:"taste"`
	Strength int     `json:"strength"`
	Overall  float64 `json:"overall"`
}

type shopSummaryResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Locality     string          `json:"locality"`
	Neighborhood string          `json:"neighborhood"`
	Location     locationPayload `json:"location"`
	Scores       scoresPayload   `json:"scores"`
	Verified     bool            `json:"verified"`
	Highlights   []string        `json:"highlights"`
	ReviewCount  int             `json:"reviewCount"`
}

type reviewPayload struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Text     string `json:"text"`
	Date     string `json:"date"`
	AgeLabel string `json:"ageLabel"`
}

type shopDetailResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Neighborhood string          `json:"neighborhood"`
	City         string          `json:"city"`
	Location     locationPayload `json:"location"`
	Scores       scoresPayload   `json:"scores"`
	Verified     bool            `json:"verified"`
	Highlights   []string        `json:"highlights"`
	Reviews      []reviewPayload `json:"reviews"`
}

type shopListResponse struct {
	Items         []shopSummaryResponse `json:"items"`
	Total         int                   `json:"total"`
	FilteredCount int                   `json:"filteredCount"`
}

type filtersPayload struct {
	MinRating    *float64 `json:"minRating"`
	VerifiedOnly bool     `json:"verifiedOnly"`
	SearchText   string   `json:"searchText"`
}

type filterBarPayload struct {
	TotalShops        int       `json:"totalShops"`
	FilteredCount     int       `json:"filteredCount"`
	ActiveFilterCount int       `json:"activeFilterCount"`
	RatingPanelOpen   bool      `json:"ratingPanelOpen"`
	RatingOptions     []float64 `json:"ratingOptions"`
}

type popupPayload struct {
	Name         string  `json:"name"`
	Neighborhood string  `json:"neighborhood"`
	OverallScore float64 `json:"overallScore"`
}

type markerPayload struct {
	ShopID       string          `json:"shopId"`
	Position     locationPayload `json:"position"`
	Selected     bool            `json:"selected"`
	Size         int             `json:"size"`
	ZIndexOffset int             `json:"zIndexOffset"`
	Popup        popupPayload    `json:"popup"`
}

type viewportPayload struct {
	Center locationPayload `json:"center"`
	Zoom   int             `json:"zoom"`
}

type mapPayload struct {
	Markers  []markerPayload `json:"markers"`
	Viewport viewportPayload `json:"viewport"`
}

type sessionResponse struct {
	ID             string                `json:"id"`
	View           string                `json:"view"`
	Filters        filtersPayload        `json:"filters"`
	FilterBar      filterBarPayload      `json:"filterBar"`
	Items          []shopSummaryResponse `json:"items"`
	SelectedShopID *string               `json:"selectedShopId"`
	SelectedShop   *shopDetailResponse   `json:"selectedShop"`
	Map            mapPayload            `json:"map"`
}

type ratingRequest struct {
	Rating *float64 `json:"rating"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type selectionRequest struct {
	ShopID string `json:"shopId"`
}

func toLocationPayload(loc domain.Location) locationPayload {
	return locationPayload{Lat: loc.Lat, Lng: loc.Lng}
}

func toScoresPayload(shop domain.Shop) scoresPayload {
	return scoresPayload{
		Price:    shop.PriceScore,
		Taste:    shop.TasteScore,
		Strength: shop.StrengthScore,
		Overall:  shop.OverallScore,
	}
}

// buildShopSummaryResponse は Shop ドメインモデルを一覧表示用 DTO に変換する。
func buildShopSummaryResponse(shop domain.Shop) shopSummaryResponse {
	return shopSummaryResponse{
		ID:           shop.ID,
		Name:         shop.Name,
		Locality:     shop.Locality(),
		Neighborhood: shop.Neighborhood,
		Location:     toLocationPayload(shop.Location),
		Scores:       toScoresPayload(shop),
		Verified:     shop.IsVerified(),
		Highlights:   shopHighlights(shop),
		ReviewCount:  len(shop.Reviews),
	}
}

// shopHighlights は JSON で null にならないよう空スライスを返す。
func shopHighlights(shop domain.Shop) []string {
	highlights := shop.Highlights()
	if highlights == nil {
		return []string{}
	}
	return highlights
}

func buildShopSummaries(shops []domain.Shop) []shopSummaryResponse {
	items := make([]shopSummaryResponse, 0, len(shops))
	for _, shop := range shops {
		items = append(items, buildShopSummaryResponse(shop))
	}
	return items
}

// buildShopDetailResponse は詳細パネル用 DTO を組み立てる。レビューの相対日付は now 基準。
func buildShopDetailResponse(shop domain.Shop, now time.Time) shopDetailResponse {
	reviews := make([]reviewPayload, 0, len(shop.Reviews))
	for _, review := range shop.Reviews {
		reviews = append(reviews, reviewPayload{
			ID:       review.ID,
			Author:   review.Author,
			Text:     review.Text,
			Date:     review.Date,
			AgeLabel: domain.DescribeReviewAge(review.Date, now),
		})
	}
	return shopDetailResponse{
		ID:           shop.ID,
		Name:         shop.Name,
		Address:      shop.Address,
		Neighborhood: shop.Neighborhood,
		City:         shop.City(),
		Location:     toLocationPayload(shop.Location),
		Scores:       toScoresPayload(shop),
		Verified:     shop.IsVerified(),
		Highlights:   shopHighlights(shop),
		Reviews:      reviews,
	}
}

func buildMapPayload(surface *mapview.Surface) mapPayload {
	markers := surface.Markers()
	payload := mapPayload{Markers: make([]markerPayload, 0, len(markers))}
	for _, m := range markers {
		payload.Markers = append(payload.Markers, markerPayload{
			ShopID:       m.ShopID,
			Position:     toLocationPayload(m.Position),
			Selected:     m.Selected,
			Size:         m.Size,
			ZIndexOffset: m.ZIndexOffset,
			Popup: popupPayload{
				Name:         m.Popup.Name,
				Neighborhood: m.Popup.Neighborhood,
				OverallScore: m.Popup.OverallScore,
			},
		})
	}
	vp := surface.Viewport()
	payload.Viewport = viewportPayload{Center: toLocationPayload(vp.Center), Zoom: vp.Zoom}
	return payload
}

// buildSessionResponse は呼び出し側がセッションのロックを保持している前提で状態を読み出す。
func buildSessionResponse(s *session.Session, now time.Time) sessionResponse {
	controller := s.Controller
	state := controller.State()
	bar := application.FilterBar(state, controller.Catalog().Len())

	resp := sessionResponse{
		ID:   s.ID,
		View: viewList,
		Filters: filtersPayload{
			MinRating:    state.Criteria.MinimumRating,
			VerifiedOnly: state.Criteria.VerifiedOnly,
			SearchText:   state.Criteria.SearchText,
		},
		FilterBar: filterBarPayload{
			TotalShops:        bar.TotalShops,
			FilteredCount:     bar.FilteredCount,
			ActiveFilterCount: bar.ActiveFilterCount,
			RatingPanelOpen:   bar.RatingPanelOpen,
			RatingOptions:     bar.RatingOptions,
		},
		Items: buildShopSummaries(state.VisibleShops),
		Map:   buildMapPayload(s.Map),
	}
	if shop, ok := controller.SelectedShop(); ok {
		id := shop.ID
		detail := buildShopDetailResponse(shop, now)
		resp.View = viewDetail
		resp.SelectedShopID = &id
		resp.SelectedShop = &detail
	}
	return resp
}
