package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/coffee-hunter/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/coffee-hunter/api/internal/public/application"
	"github.com/sngm3741/coffee-hunter/api/internal/public/session"
)

var errMarkerNotFound = errors.New("marker not found")

func (h *Handler) sessionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		created := h.sessions.Create()
		h.respondWithSession(w, created.ID, http.StatusCreated, func(*session.Session) error { return nil })
	}
}

func (h *Handler) sessionGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.respondWithSession(w, sessionID(r), http.StatusOK, func(*session.Session) error { return nil })
	}
}

func (h *Handler) sessionDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.sessions.Delete(sessionID(r)); err != nil {
			h.writeSessionError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) sessionSetRatingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ratingRequest
		if err := decodeJSONBody(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		var rating *float64
		if req.Rating != nil {
			valid, err := common.ValidateRating(*req.Rating)
			if err != nil {
				common.WriteError(h.logger, w, http.StatusBadRequest, "評価フィルタは 1〜5 の整数で指定してください")
				return
			}
			rating = valid
		}

		h.respondWithSession(w, sessionID(r), http.StatusOK, func(s *session.Session) error {
			s.Controller.SetMinimumRating(rating)
			return nil
		})
	}
}

// sessionToggleRatingPanelHandler はフィルタボタン。未設定なら既定値、設定済みなら解除する。
func (h *Handler) sessionToggleRatingPanelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.respondWithSession(w, sessionID(r), http.StatusOK, func(s *session.Session) error {
			current := s.Controller.Criteria().MinimumRating
			s.Controller.SetMinimumRating(publicapp.ToggledRatingPanel(current))
			return nil
		})
	}
}

// sessionPickRatingHandler は評価ピルの押下。選択中のピルをもう一度押すと解除される。
func (h *Handler) sessionPickRatingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pill, err := common.ParseRating(chi.URLParam(r, "rating"))
		if err != nil || pill == nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "評価フィルタは 1〜5 の整数で指定してください")
			return
		}

		h.respondWithSession(w, sessionID(r), http.StatusOK, func(s *session.Session) error {
			current := s.Controller.Criteria().MinimumRating
			s.Controller.SetMinimumRating(publicapp.PickedRating(current, *pill))
			return nil
		})
	}
}

func (h *Handler) sessionToggleVerifiedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.respondWithSession(w, sessionID(r), http.StatusOK, func(s *session.Session) error {
			s.Controller.ToggleVerifiedOnly()
			return nil
		})
	}
}

func (h *Handler) sessionSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := decodeJSONBody(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondWithSession(w, sessionID(r), http.StatusOK, func(s *session.Session) error {
			s.Controller.SetSearchText(req.Query)
			return nil
		})
	}
}

func (h *Handler) sessionSelectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectionRequest
		if err := decodeJSONBody(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		// 空やカタログに無い ID は選択解除として扱う。
		shopID := strings.TrimSpace(req.ShopID)
		h.respondWithSession(w, sessionID(r), http.StatusOK, func(s *session.Session) error {
			s.Controller.SelectShop(shopID)
			return nil
		})
	}
}

func (h *Handler) sessionClearSelectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.respondWithSession(w, sessionID(r), http.StatusOK, func(s *session.Session) error {
			s.Controller.ClearSelection()
			return nil
		})
	}
}

func (h *Handler) sessionMarkerClickHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID := strings.TrimSpace(chi.URLParam(r, "shopID"))
		h.respondWithSession(w, sessionID(r), http.StatusOK, func(s *session.Session) error {
			if !s.Map.Click(shopID) {
				return errMarkerNotFound
			}
			return nil
		})
	}
}

// respondWithSession は op をセッションのロック内で実行し、その直後の状態を返す。
func (h *Handler) respondWithSession(w http.ResponseWriter, id string, status int, op func(*session.Session) error) {
	var resp sessionResponse
	err := h.sessions.Do(id, func(s *session.Session) error {
		if err := op(s); err != nil {
			return err
		}
		resp = buildSessionResponse(s, h.reviewClock())
		return nil
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	common.WriteJSON(h.logger, w, status, resp)
}

func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "セッションが見つかりません")
	case errors.Is(err, errMarkerNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "マーカーが見つかりません")
	default:
		h.logger.Errorw("session operation failed", "error", err)
		common.WriteError(h.logger, w, http.StatusInternalServerError, "セッションの更新に失敗しました")
	}
}

func sessionID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "sessionID"))
}
