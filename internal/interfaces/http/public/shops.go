package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/coffee-hunter/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/coffee-hunter/api/internal/public/application"
)

func (h *Handler) shopListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		minRating, err := common.ParseRating(query.Get("minRating"))
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "評価フィルタは 1〜5 の整数で指定してください")
			return
		}
		criteria := publicapp.FilterCriteria{
			MinimumRating: minRating,
			VerifiedOnly:  common.ParseBool(query.Get("verified")),
			SearchText:    query.Get("q"),
		}

		shops := h.shopQueries.List(criteria)
		common.WriteJSON(h.logger, w, http.StatusOK, shopListResponse{
			Items:         buildShopSummaries(shops),
			Total:         h.shopQueries.Total(),
			FilteredCount: len(shops),
		})
	}
}

func (h *Handler) shopDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "店舗IDが指定されていません")
			return
		}

		shop, err := h.shopQueries.Detail(idParam)
		if err != nil {
			if errors.Is(err, publicapp.ErrShopNotFound) {
				common.WriteError(h.logger, w, http.StatusNotFound, "店舗が見つかりません")
				return
			}
			h.logger.Errorw("shop detail fetch failed", "id", idParam, "error", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "店舗情報の取得に失敗しました")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildShopDetailResponse(shop, h.reviewClock()))
	}
}
