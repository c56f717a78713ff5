package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sngm3741/coffee-hunter/api/internal/config"
	commonhttp "github.com/sngm3741/coffee-hunter/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/coffee-hunter/api/internal/interfaces/http/public"
	publicapp "github.com/sngm3741/coffee-hunter/api/internal/public/application"
	"github.com/sngm3741/coffee-hunter/api/internal/public/session"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger           *zap.SugaredLogger
	client           *mongo.Client
	catalog          *publicapp.Catalog
	shopQueryService publicapp.ShopQueryService
	sessions         *session.Registry
	location         *time.Location
	catalogSource    string
	addr             string
	allowedOrigins   []string
}

// Run はHTTPサーバーを起動し、セッション掃除ループとシグナル待ちを開始する。
func (s *Server) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var background errgroup.Group
	background.Go(func() error {
		s.sessions.Run(ctx)
		return nil
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Infof("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	err := waitForShutdown(httpServer, errChan, s)
	cancel()
	_ = background.Wait()
	s.sessions.Close()
	return err
}

// Router assembles the middleware chain and routes.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:      s.logger,
		ShopQueries: s.shopQueryService,
		Sessions:    s.sessions,
		Location:    s.location,
	})
	publicHandler.Register(router)
	return router
}

// requestLogger は chi の middleware.Logger の代わりに zap でアクセスログを出す。
func requestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				logger.Infow("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"requestId", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler はカタログ件数と、mongo ソースの場合は MongoDB への疎通を返す。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"status": "ok",
			"source": s.catalogSource,
			"shops":  s.catalog.Len(),
			"time":   time.Now().In(s.location).Format(time.RFC3339),
		}

		if s.client != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
				payload["status"] = "degraded"
				payload["error"] = err.Error()
				commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, payload)
				return
			}
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, payload)
	}
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	if s.client == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Errorf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Errorf("サーバーが異常終了: %v", err)
			runErr = err
		}
	case sig := <-sigChan:
		srv.logger.Infof("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Errorf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
	return runErr
}

// New は Config とロード済みカタログを受け取り、サービスとハンドラを組み立てた Server を返す。
// client は mongo ソースのときだけ non-nil。
func New(cfg config.Config, catalog *publicapp.Catalog, client *mongo.Client) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.FixedZone("IST", 2*60*60)
		logger.Warnf("タイムゾーン %s の読み込みに失敗: %v, UTC+2 を使用します", cfg.Timezone, err)
	}

	return &Server{
		logger:           logger,
		client:           client,
		catalog:          catalog,
		shopQueryService: publicapp.NewShopQueryService(catalog),
		sessions: session.NewRegistry(catalog, session.Options{
			TTL:           cfg.SessionTTL,
			SweepInterval: cfg.SessionSweepInterval,
			Logger:        logger.Named("sessions"),
		}),
		location:       loc,
		catalogSource:  cfg.CatalogSource,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}
}
