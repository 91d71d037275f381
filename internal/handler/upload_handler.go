package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/senna-lang/photo-map-S3-app/internal/domain"
	"github.com/senna-lang/photo-map-S3-app/internal/metrics"
	"github.com/senna-lang/photo-map-S3-app/internal/middleware"
	"github.com/senna-lang/photo-map-S3-app/internal/storage"
)

// UploaderInterface はアップロードハンドラーが必要とするストレージインターフェース。
type UploaderInterface interface {
	GenerateUploadURL(ctx context.Context, userID domain.UserID, filename, contentType string) (*storage.UploadURL, error)
}

// UploadHandler は画像アップロードURL発行のHTTPハンドラー。
type UploadHandler struct {
	uploader UploaderInterface
	metrics  metrics.MetricsCollector
}

// NewUploadHandler はUploadHandlerを生成する。
func NewUploadHandler(uploader UploaderInterface, collector metrics.MetricsCollector) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		metrics:  collector,
	}
}

// uploadURLRequest はアップロードURL発行リクエストのボディ。
type uploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// uploadURLResponse はアップロードURL発行のAPIレスポンス。
type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"` // 秒
}

// GenerateUploadURL はS3への署名付きアップロードURLを発行する。
// POST /api/upload-url {"filename": "...", "contentType": "image/jpeg"}
func (h *UploadHandler) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req uploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			domain.NewAlbumValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	result, err := h.uploader.GenerateUploadURL(r.Context(), userID, req.Filename, req.ContentType)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordUploadURLIssued()

	writeJSON(w, http.StatusOK, uploadURLResponse{
		UploadURL: result.UploadURL,
		PublicURL: result.PublicURL,
		Key:       result.Key,
		ExpiresIn: int(result.ExpiresIn.Seconds()),
	})
}
