package public

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/coffee-hunter/api/internal/infrastructure/static"
	publicapp "github.com/sngm3741/coffee-hunter/api/internal/public/application"
	"github.com/sngm3741/coffee-hunter/api/internal/public/session"
)

var fixedNow = time.Date(2025, 12, 12, 10, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) (http.Handler, *session.Registry) {
	t.Helper()
	catalog, err := publicapp.LoadCatalog(context.Background(), static.NewRepository())
	require.NoError(t, err)

	registry := session.NewRegistry(catalog, session.Options{})
	t.Cleanup(registry.Close)

	h := NewHandler(Config{
		ShopQueries: publicapp.NewShopQueryService(catalog),
		Sessions:    registry,
		Now:         func() time.Time { return fixedNow },
	})
	r := chi.NewRouter()
	h.Register(r)
	return r, registry
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) sessionResponse {
	t.Helper()
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func summaryIDs(items []shopSummaryResponse) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestShopListFilters(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"cafe-xoho", "nahat", "cafelix-florentin", "jaffa-roasters", "kerem-kiosk", "mae-cafe"}},
		{"min rating", "?minRating=4", []string{"cafe-xoho", "nahat", "cafelix-florentin"}},
		{"verified", "?verified=true", []string{"cafe-xoho", "nahat", "cafelix-florentin"}},
		{"search", "?q=%20%20JAFFA%20", []string{"jaffa-roasters"}},
		{"search neighborhood", "?q=kerem", []string{"kerem-kiosk"}},
		{"no match", "?q=zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, "/shops"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp shopListResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, summaryIDs(resp.Items))
			assert.Equal(t, 6, resp.Total)
			assert.Equal(t, len(tt.want), resp.FilteredCount)
		})
	}
}

func TestShopListRejectsInvalidRating(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, q := range []string{"3.5", "0", "six"} {
		rec := doRequest(t, router, http.MethodGet, "/shops?minRating="+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestShopDetail(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/shops/nahat", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp shopDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Nahat Coffee", resp.Name)
	assert.Equal(t, "Tel Aviv", resp.City)
	assert.True(t, resp.Verified)
	assert.Equal(t, []string{"Specialty", "Premium"}, resp.Highlights)
	require.Len(t, resp.Reviews, 1)
	assert.NotEmpty(t, resp.Reviews[0].AgeLabel)

	rec = doRequest(t, router, http.MethodGet, "/shops/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"店舗が見つかりません"}`, rec.Body.String())
}

func TestSessionLifecycle(t *testing.T) {
	router, registry := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeSession(t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, viewList, created.View)
	assert.Nil(t, created.SelectedShopID)
	assert.Nil(t, created.Filters.MinRating)
	assert.Len(t, created.Items, 6)
	assert.Len(t, created.Map.Markers, 6)
	assert.Equal(t, 1, registry.Len())

	rec = doRequest(t, router, http.MethodGet, "/sessions/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeSession(t, rec).ID)

	rec = doRequest(t, router, http.MethodDelete, "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(t, router, http.MethodDelete, "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionSelectionAndRatingFilter(t *testing.T) {
	router, _ := newTestRouter(t)
	id := decodeSession(t, doRequest(t, router, http.MethodPost, "/sessions", nil)).ID
	base := "/sessions/" + id

	rec := doRequest(t, router, http.MethodPut, base+"/selection", selectionRequest{ShopID: "jaffa-roasters"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSession(t, rec)
	assert.Equal(t, viewDetail, resp.View)
	require.NotNil(t, resp.SelectedShopID)
	assert.Equal(t, "jaffa-roasters", *resp.SelectedShopID)
	require.NotNil(t, resp.SelectedShop)
	assert.Equal(t, "Jaffa Roasters", resp.SelectedShop.Name)
	assert.Equal(t, locationPayload{Lat: 32.0521, Lng: 34.7546}, resp.Map.Viewport.Center)
	for _, m := range resp.Map.Markers {
		if m.ShopID == "jaffa-roasters" {
			assert.True(t, m.Selected)
			assert.Equal(t, 48, m.Size)
			assert.Equal(t, 1000, m.ZIndexOffset)
		} else {
			assert.False(t, m.Selected)
		}
	}

	// 選択中の店舗が新しい評価フィルタを満たさないので選択は解除される。
	rec = doRequest(t, router, http.MethodPut, base+"/filters/rating", map[string]any{"rating": 4})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeSession(t, rec)
	assert.Equal(t, viewList, resp.View)
	assert.Nil(t, resp.SelectedShopID)
	require.NotNil(t, resp.Filters.MinRating)
	assert.Equal(t, 4.0, *resp.Filters.MinRating)
	assert.Equal(t, []string{"cafe-xoho", "nahat", "cafelix-florentin"}, summaryIDs(resp.Items))
	assert.Equal(t, 1, resp.FilterBar.ActiveFilterCount)
	assert.True(t, resp.FilterBar.RatingPanelOpen)
	assert.Len(t, resp.Map.Markers, 3)

	rec = doRequest(t, router, http.MethodPut, base+"/filters/rating", `{"rating": null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeSession(t, rec)
	assert.Nil(t, resp.Filters.MinRating)
	assert.Len(t, resp.Items, 6)
	assert.Nil(t, resp.SelectedShopID)
}

func TestSessionRejectsInvalidInput(t *testing.T) {
	router, _ := newTestRouter(t)
	id := decodeSession(t, doRequest(t, router, http.MethodPost, "/sessions", nil)).ID
	base := "/sessions/" + id

	for _, body := range []string{`{"rating": 3.5}`, `{"rating": 0}`, `{"rating": 6}`, `{"stars": 3}`, `not json`} {
		rec := doRequest(t, router, http.MethodPut, base+"/filters/rating", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	for _, pill := range []string{"3.5", "9", "zero"} {
		rec := doRequest(t, router, http.MethodPost, base+"/filters/rating/pills/"+pill, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, pill)
	}

	rec := doRequest(t, router, http.MethodPut, "/sessions/missing/filters/search", searchRequest{Query: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionToggles(t *testing.T) {
	router, _ := newTestRouter(t)
	id := decodeSession(t, doRequest(t, router, http.MethodPost, "/sessions", nil)).ID
	base := "/sessions/" + id

	resp := decodeSession(t, doRequest(t, router, http.MethodPost, base+"/filters/rating/toggle", nil))
	require.NotNil(t, resp.Filters.MinRating)
	assert.Equal(t, 4.0, *resp.Filters.MinRating)

	resp = decodeSession(t, doRequest(t, router, http.MethodPost, base+"/filters/rating/toggle", nil))
	assert.Nil(t, resp.Filters.MinRating)

	resp = decodeSession(t, doRequest(t, router, http.MethodPost, base+"/filters/verified/toggle", nil))
	assert.True(t, resp.Filters.VerifiedOnly)
	assert.Equal(t, 3, resp.FilterBar.FilteredCount)
	assert.Equal(t, 6, resp.FilterBar.TotalShops)

	resp = decodeSession(t, doRequest(t, router, http.MethodPost, base+"/filters/verified/toggle", nil))
	assert.False(t, resp.Filters.VerifiedOnly)
	assert.Equal(t, 6, resp.FilterBar.FilteredCount)
}

func TestSessionSearchStoresQueryVerbatim(t *testing.T) {
	router, _ := newTestRouter(t)
	id := decodeSession(t, doRequest(t, router, http.MethodPost, "/sessions", nil)).ID

	rec := doRequest(t, router, http.MethodPut, "/sessions/"+id+"/filters/search", searchRequest{Query: "  Florentin "})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSession(t, rec)
	assert.Equal(t, "  Florentin ", resp.Filters.SearchText)
	assert.Equal(t, []string{"cafelix-florentin"}, summaryIDs(resp.Items))
}

func TestSessionMarkerClick(t *testing.T) {
	router, _ := newTestRouter(t)
	id := decodeSession(t, doRequest(t, router, http.MethodPost, "/sessions", nil)).ID
	base := "/sessions/" + id

	rec := doRequest(t, router, http.MethodPost, base+"/map/markers/nahat/click", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSession(t, rec)
	require.NotNil(t, resp.SelectedShopID)
	assert.Equal(t, "nahat", *resp.SelectedShopID)

	doRequest(t, router, http.MethodPost, base+"/filters/verified/toggle", nil)
	rec = doRequest(t, router, http.MethodPost, base+"/map/markers/kerem-kiosk/click", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, base+"/selection", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeSession(t, rec).SelectedShopID)
}

func TestSessionRatingPillTogglesOff(t *testing.T) {
	router, _ := newTestRouter(t)
	id := decodeSession(t, doRequest(t, router, http.MethodPost, "/sessions", nil)).ID
	base := "/sessions/" + id

	rec := doRequest(t, router, http.MethodPost, base+"/filters/rating/pills/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSession(t, rec)
	require.NotNil(t, resp.Filters.MinRating)
	assert.Equal(t, 3.0, *resp.Filters.MinRating)
	assert.Len(t, resp.Items, 5)

	resp = decodeSession(t, doRequest(t, router, http.MethodPost, base+"/filters/rating/pills/4", nil))
	require.NotNil(t, resp.Filters.MinRating)
	assert.Equal(t, 4.0, *resp.Filters.MinRating)

	// 同じピルをもう一度押すと評価フィルタは解除される。
	resp = decodeSession(t, doRequest(t, router, http.MethodPost, base+"/filters/rating/pills/4", nil))
	assert.Nil(t, resp.Filters.MinRating)
	assert.Len(t, resp.Items, 6)
	assert.False(t, resp.FilterBar.RatingPanelOpen)
}

func TestSessionEmptySelectionClears(t *testing.T) {
	router, _ := newTestRouter(t)
	id := decodeSession(t, doRequest(t, router, http.MethodPost, "/sessions", nil)).ID
	base := "/sessions/" + id

	resp := decodeSession(t, doRequest(t, router, http.MethodPut, base+"/selection", selectionRequest{ShopID: "nahat"}))
	require.NotNil(t, resp.SelectedShopID)

	rec := doRequest(t, router, http.MethodPut, base+"/selection", `{"shopId": "  "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeSession(t, rec)
	assert.Nil(t, resp.SelectedShopID)
	assert.Equal(t, viewList, resp.View)
}

func TestShopSummaryCarriesHighlights(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/shops", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp shopListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	byID := make(map[string][]string, len(resp.Items))
	for _, item := range resp.Items {
		byID[item.ID] = item.Highlights
	}
	assert.Equal(t, []string{"Specialty", "Premium"}, byID["nahat"])
	assert.Equal(t, []string{"Budget Friendly"}, byID["kerem-kiosk"])
	assert.Equal(t, []string{}, byID["mae-cafe"])
}
