package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/senna-lang/photo-map-S3-app/internal/metrics"
	"github.com/senna-lang/photo-map-S3-app/internal/middleware"
)

// HealthChecker はヘルスチェックでのDB疎通確認のインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// ヘルスチェック
	HealthChecker HealthChecker

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// アルバム
	AlbumService AlbumServiceInterface

	// 画像アップロード
	Uploader UploaderInterface

	// 監視
	Metrics         metrics.MetricsCollector
	MetricsGatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS → Auth → RateLimit(General)
//
// 認証ルート（/auth/*）と/health、/metricsは認証チェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.Metrics)
	albumHandler := NewAlbumHandler(deps.AlbumService, deps.Metrics)
	uploadHandler := NewUploadHandler(deps.Uploader, deps.Metrics)

	// --- 認証不要のルート ---

	// 認証ルート（OAuthフロー）
	r.Route("/auth", func(r chi.Router) {
		r.Get("/github/login", authHandler.Login)
		r.Get("/github/callback", authHandler.Callback)
		r.Post("/signin", authHandler.SignIn)
		r.Get("/me", authHandler.Me)
	})

	// ヘルスチェック
	r.Get("/health", healthCheck(deps.HealthChecker))

	// Prometheusスクレイプ
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// アルバム管理
		r.Route("/api/albums", func(r chi.Router) {
			r.Get("/", albumHandler.ListAlbums)

			// POST /api/albums - アルバム作成（作成専用レート制限を追加）
			r.With(deps.RateLimiter.AlbumCreationMiddleware()).Post("/", albumHandler.CreateAlbum)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", albumHandler.GetAlbum)
				r.Delete("/", albumHandler.DeleteAlbum)

				// 画像の追加・削除
				r.Post("/images", albumHandler.AddImage)
				r.Delete("/images", albumHandler.RemoveImage)
			})
		})

		// ユーザーのアルバム一覧
		r.Get("/api/users/{id}/albums", albumHandler.ListUserAlbums)

		// 画像アップロードURL発行
		r.Post("/api/upload-url", uploadHandler.GenerateUploadURL)
	})

	return r
}

// healthCheck は稼働確認用のエンドポイントを返す。
// DB疎通が確認できない場合は503を返す。
// GET /health
func healthCheck(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
