// Package storage はS3への画像アップロード用の署名付きURL発行を提供する。
package storage

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/senna-lang/photo-map-S3-app/internal/domain"
)

// defaultURLExpiry は署名付きURLの既定の有効期限。
const defaultURLExpiry = 15 * time.Minute

// allowedContentTypes はアップロードを許可する画像のContent-Type。
var allowedContentTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/svg+xml": {},
}

// unsafeFilenameChars はオブジェクトキーに使えない文字。
var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// S3Config はS3ストレージの設定。
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string

	// Endpoint はS3互換ストレージ用のエンドポイント。空の場合はAWSを使う。
	Endpoint string
	// PublicBaseURL は公開URLのベース。空の場合はバケットの標準URLを使う。
	PublicBaseURL string
	// URLExpiry は署名付きURLの有効期限。ゼロの場合は既定値を使う。
	URLExpiry time.Duration
}

// UploadURL は発行した署名付きアップロードURLと、
// アップロード完了後に参照できる公開URLの組。
type UploadURL struct {
	UploadURL string
	PublicURL string
	Key       string
	ExpiresIn time.Duration
}

// presignAPI はs3.PresignClientのうち利用するメソッドのインターフェース。
type presignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Uploader は署名付きアップロードURLを発行する。
// オブジェクト本体の転送はクライアントがS3と直接行う。
type Uploader struct {
	presigner presignAPI
	config    S3Config
}

// NewUploader はUploaderを生成する。
func NewUploader(config S3Config) *Uploader {
	if config.URLExpiry <= 0 {
		config.URLExpiry = defaultURLExpiry
	}

	opts := s3.Options{
		Region: config.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		),
	}
	if config.Endpoint != "" {
		opts.BaseEndpoint = aws.String(config.Endpoint)
		opts.UsePathStyle = true
	}

	client := s3.New(opts)
	return &Uploader{
		presigner: s3.NewPresignClient(client),
		config:    config,
	}
}

// newUploaderWithPresigner はテスト用に署名クライアントを差し替える。
func newUploaderWithPresigner(presigner presignAPI, config S3Config) *Uploader {
	if config.URLExpiry <= 0 {
		config.URLExpiry = defaultURLExpiry
	}
	return &Uploader{presigner: presigner, config: config}
}

// GenerateUploadURL はユーザーの画像アップロード用の署名付きPUT URLを発行する。
// オブジェクトキーは uploads/{ユーザーID}/{UUID}-{サニタイズ済みファイル名}。
func (u *Uploader) GenerateUploadURL(ctx context.Context, userID domain.UserID, filename, contentType string) (*UploadURL, error) {
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, domain.NewInvalidImageURLError(filename,
			fmt.Sprintf("Content-Type %q はアップロードできません", contentType))
	}

	sanitized := sanitizeFilename(filename)
	if sanitized == "" {
		return nil, domain.NewInvalidImageURLError(filename, "ファイル名が不正です")
	}

	key := fmt.Sprintf("uploads/%s/%s-%s", userID, uuid.New().String(), sanitized)

	req, err := u.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.config.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = u.config.URLExpiry
	})
	if err != nil {
		return nil, domain.NewRepositoryError("アップロードURLの発行に失敗しました", err)
	}

	return &UploadURL{
		UploadURL: req.URL,
		PublicURL: u.publicURL(key),
		Key:       key,
		ExpiresIn: u.config.URLExpiry,
	}, nil
}

// publicURL はオブジェクトキーから公開URLを導出する。
func (u *Uploader) publicURL(key string) string {
	if u.config.PublicBaseURL != "" {
		return strings.TrimSuffix(u.config.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.config.Bucket, u.config.Region, key)
}

// sanitizeFilename はファイル名をオブジェクトキーに安全な形に変換する。
// ディレクトリ部分を除去し、使えない文字をハイフンに置き換える。
func sanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	sanitized := unsafeFilenameChars.ReplaceAllString(base, "-")
	return strings.Trim(sanitized, "-.")
}
