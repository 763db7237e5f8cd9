package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hitoshi/userdir/internal/metrics"
	"github.com/hitoshi/userdir/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// mountUserRoutes は/users配下のルートを登録する。
// chiは静的セグメントを優先するため、/users/createと/users/searchは{id}より先に一致する。
func mountUserRoutes(r chi.Router, h *UserHandler) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.Index)

		r.Get("/create", h.CreateForm)
		r.Post("/create", h.Create)

		r.Get("/search", h.Search)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Details)

			r.Get("/edit", h.EditForm)
			r.Post("/edit", h.Edit)

			r.Get("/delete", h.DeleteConfirm)
			r.Post("/delete", h.Delete)
		})
	})
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger *slog.Logger // nilの場合はslog.Default()

	// TrustProxyHeaders がtrueの場合のみX-Forwarded-For等でRemoteAddrを書き換える。
	// 書き換え後のRemoteAddrはレート制限のキーになる。
	TrustProxyHeaders bool
	RateLimiter       *middleware.RateLimiter
	Metrics           metrics.MetricsCollector
	Gatherer          prometheus.Gatherer

	// ユーザー
	UserService UserServiceInterface
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	[RealIP] → RequestID → Logging → Metrics → Recovery → SecurityHeaders → RateLimit(/users のみ)
//
// RealIPはTrustProxyHeadersがtrueの場合のみ登録する。
// MetricsはRecoveryの外側に置き、panic時の500も記録する。
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.NopCollector{}
	}

	if deps.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())

	// --- 運用エンドポイント ---
	r.Get("/health", Health)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, listPath, http.StatusFound)
	})

	// --- ユーザーディレクトリ ---
	userHandler := NewUserHandler(deps.UserService)
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}
		mountUserRoutes(r, userHandler)
	})

	return r
}
