package public

import (
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	publicapp "github.com/sngm3741/coffee-hunter/api/internal/public/application"
	"github.com/sngm3741/coffee-hunter/api/internal/public/session"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger      *zap.SugaredLogger
	shopQueries publicapp.ShopQueryService
	sessions    *session.Registry
	location    *time.Location
	now         func() time.Time
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger      *zap.SugaredLogger
	ShopQueries publicapp.ShopQueryService
	Sessions    *session.Registry
	// Location はレビュー日付の相対表示に使うタイムゾーン。
	Location *time.Location
	Now      func() time.Time
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	h := &Handler{
		logger:      cfg.Logger,
		shopQueries: cfg.ShopQueries,
		sessions:    cfg.Sessions,
		location:    cfg.Location,
		now:         cfg.Now,
	}
	if h.logger == nil {
		h.logger = zap.NewNop().Sugar()
	}
	if h.location == nil {
		h.location = time.UTC
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/shops", h.shopListHandler())
	r.Get("/shops/{id}", h.shopDetailHandler())

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.sessionCreateHandler())
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.sessionGetHandler())
			r.Delete("/", h.sessionDeleteHandler())
			r.Put("/filters/rating", h.sessionSetRatingHandler())
			r.Post("/filters/rating/toggle", h.sessionToggleRatingPanelHandler())
			r.Post("/filters/rating/pills/{rating}", h.sessionPickRatingHandler())
			r.Post("/filters/verified/toggle", h.sessionToggleVerifiedHandler())
			r.Put("/filters/search", h.sessionSearchHandler())
			r.Put("/selection", h.sessionSelectHandler())
			r.Delete("/selection", h.sessionClearSelectionHandler())
			r.Post("/map/markers/{shopID}/click", h.sessionMarkerClickHandler())
		})
	})
}

// reviewClock returns the current time in the configured timezone.
func (h *Handler) reviewClock() time.Time {
	return h.now().In(h.location)
}

