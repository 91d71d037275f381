package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/senna-lang/photo-map-S3-app/internal/album"
	"github.com/senna-lang/photo-map-S3-app/internal/domain"
	"github.com/senna-lang/photo-map-S3-app/internal/metrics"
	"github.com/senna-lang/photo-map-S3-app/internal/middleware"
)

// AlbumServiceInterface はアルバムハンドラーが必要とするサービスインターフェース。
type AlbumServiceInterface interface {
	CreateAlbum(ctx context.Context, ownerID domain.UserID, input album.CreateAlbumInput) (*domain.Album, error)
	GetAlbum(ctx context.Context, albumID domain.AlbumID) (*domain.Album, error)
	ListAlbums(ctx context.Context) ([]*domain.Album, error)
	ListAlbumsByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Album, error)
	DeleteAlbum(ctx context.Context, albumID domain.AlbumID, requesterID domain.UserID) error
	AddImage(ctx context.Context, albumID domain.AlbumID, requesterID domain.UserID, rawImageURL string) (*domain.Album, error)
	RemoveImage(ctx context.Context, albumID domain.AlbumID, requesterID domain.UserID, rawImageURL string) (*domain.Album, error)
}

// AlbumHandler はアルバム管理のHTTPハンドラー。
type AlbumHandler struct {
	service AlbumServiceInterface
	metrics metrics.MetricsCollector
}

// NewAlbumHandler はAlbumHandlerを生成する。
func NewAlbumHandler(service AlbumServiceInterface, collector metrics.MetricsCollector) *AlbumHandler {
	return &AlbumHandler{
		service: service,
		metrics: collector,
	}
}

// createAlbumRequest はアルバム作成リクエストのボディ。
type createAlbumRequest struct {
	Coordinate coordinateBody `json:"coordinate"`
	ImageURLs  []string       `json:"imageUrls"`
}

// coordinateBody は座標のリクエスト・レスポンス表現。
type coordinateBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// imageMutationRequest は画像の追加・削除リクエストのボディ。
type imageMutationRequest struct {
	ImageURL string `json:"imageUrl"`
}

// albumResponse はアルバム情報のAPIレスポンス。
type albumResponse struct {
	ID         string         `json:"id"`
	Coordinate coordinateBody `json:"coordinate"`
	ImageURLs  []string       `json:"imageUrls"`
	UserID     string         `json:"userId"`
	CreatedAt  string         `json:"createdAt"`
	UpdatedAt  string         `json:"updatedAt"`
}

// ListAlbums は全アルバムの一覧を返す。
// GET /api/albums
func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.service.ListAlbums(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlbumResponses(albums))
}

// CreateAlbum はアルバム作成を処理する。
// POST /api/albums
func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			domain.NewAlbumValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	created, err := h.service.CreateAlbum(r.Context(), userID, album.CreateAlbumInput{
		Latitude:  req.Coordinate.Latitude,
		Longitude: req.Coordinate.Longitude,
		ImageURLs: req.ImageURLs,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordAlbumCreated()

	writeJSON(w, http.StatusCreated, toAlbumResponse(created))
}

// GetAlbum はアルバム詳細を取得する。
// GET /api/albums/{id}
func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	albumID, err := domain.ParseAlbumID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	found, err := h.service.GetAlbum(r.Context(), albumID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlbumResponse(found))
}

// DeleteAlbum はアルバム削除を処理する。所有者のみが削除できる。
// DELETE /api/albums/{id}
func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	albumID, err := domain.ParseAlbumID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.service.DeleteAlbum(r.Context(), albumID, userID); err != nil {
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordAlbumDeleted()

	w.WriteHeader(http.StatusNoContent)
}

// AddImage はアルバムへの画像追加を処理する。
// POST /api/albums/{id}/images {"imageUrl": "..."}
func (h *AlbumHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	albumID, err := domain.ParseAlbumID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req imageMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			domain.NewAlbumValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	updated, err := h.service.AddImage(r.Context(), albumID, userID, req.ImageURL)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordImageAdded()

	writeJSON(w, http.StatusOK, toAlbumResponse(updated))
}

// RemoveImage はアルバムからの画像削除を処理する。
// DELETE /api/albums/{id}/images {"imageUrl": "..."}
func (h *AlbumHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	albumID, err := domain.ParseAlbumID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req imageMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			domain.NewAlbumValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	updated, err := h.service.RemoveImage(r.Context(), albumID, userID, req.ImageURL)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordImageRemoved()

	writeJSON(w, http.StatusOK, toAlbumResponse(updated))
}

// ListUserAlbums は指定ユーザーが所有するアルバムの一覧を返す。
// GET /api/users/{id}/albums
func (h *AlbumHandler) ListUserAlbums(w http.ResponseWriter, r *http.Request) {
	ownerID, err := domain.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	albums, err := h.service.ListAlbumsByOwner(r.Context(), ownerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlbumResponses(albums))
}

// toAlbumResponse はアルバムエンティティをAPIレスポンスに変換する。
func toAlbumResponse(a *domain.Album) albumResponse {
	imageURLs := make([]string, 0, a.ImageCount())
	for _, u := range a.ImageURLs() {
		imageURLs = append(imageURLs, u.String())
	}

	return albumResponse{
		ID: a.ID().String(),
		Coordinate: coordinateBody{
			Latitude:  a.Coordinate().Latitude(),
			Longitude: a.Coordinate().Longitude(),
		},
		ImageURLs: imageURLs,
		UserID:    a.OwnerID().String(),
		CreatedAt: a.CreatedAt().Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt().Format(time.RFC3339),
	}
}

// toAlbumResponses はアルバムの一覧をAPIレスポンスに変換する。
// 空の一覧はnullではなく[]として返す。
func toAlbumResponses(albums []*domain.Album) []albumResponse {
	responses := make([]albumResponse, len(albums))
	for i, a := range albums {
		responses[i] = toAlbumResponse(a)
	}
	return responses
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeUnauthorized は未認証エラーの統一レスポンスを書き込む。
func writeUnauthorized(w http.ResponseWriter) {
	middleware.WriteErrorResponse(w, http.StatusUnauthorized,
		domain.NewTokenError("認証が必要です", nil))
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		statusCode := middleware.HTTPStatusFromKind(domainErr.Kind)
		if statusCode == http.StatusInternalServerError {
			// 永続化層の詳細はログのみに記録する
			slog.Error("internal server error", slog.String("error", err.Error()))
			middleware.WriteInternalServerError(w)
			return
		}
		middleware.WriteErrorResponse(w, statusCode, domainErr)
		return
	}

	// DomainError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}
