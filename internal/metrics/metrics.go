// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラー層から利用する。
type MetricsCollector interface {
	RecordSignIn(isNewUser bool)
	RecordAlbumCreated()
	RecordAlbumDeleted()
	RecordImageAdded()
	RecordImageRemoved()
	RecordUploadURLIssued()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signIns        *prometheus.CounterVec
	albumsCreated  prometheus.Counter
	albumsDeleted  prometheus.Counter
	imagesAdded    prometheus.Counter
	imagesRemoved  prometheus.Counter
	uploadURLs     prometheus.Counter
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photomap_signin_total",
			Help: "サインイン成功の合計数（新規・既存別）",
		}, []string{"user_type"}),
		albumsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photomap_albums_created_total",
			Help: "作成されたアルバムの合計数",
		}),
		albumsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photomap_albums_deleted_total",
			Help: "削除されたアルバムの合計数",
		}),
		imagesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photomap_images_added_total",
			Help: "アルバムに追加された画像の合計数",
		}),
		imagesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photomap_images_removed_total",
			Help: "アルバムから削除された画像の合計数",
		}),
		uploadURLs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photomap_upload_urls_issued_total",
			Help: "発行された署名付きアップロードURLの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photomap_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "photomap_request_latency_seconds",
			Help:    "APIリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.signIns,
		c.albumsCreated,
		c.albumsDeleted,
		c.imagesAdded,
		c.imagesRemoved,
		c.uploadURLs,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordSignIn はサインイン成功を記録する。
func (c *Collector) RecordSignIn(isNewUser bool) {
	userType := "existing"
	if isNewUser {
		userType = "new"
	}
	c.signIns.WithLabelValues(userType).Inc()
}

// RecordAlbumCreated はアルバム作成を記録する。
func (c *Collector) RecordAlbumCreated() {
	c.albumsCreated.Inc()
}

// RecordAlbumDeleted はアルバム削除を記録する。
func (c *Collector) RecordAlbumDeleted() {
	c.albumsDeleted.Inc()
}

// RecordImageAdded は画像の追加を記録する。
func (c *Collector) RecordImageAdded() {
	c.imagesAdded.Inc()
}

// RecordImageRemoved は画像の削除を記録する。
func (c *Collector) RecordImageRemoved() {
	c.imagesRemoved.Inc()
}

// RecordUploadURLIssued は署名付きアップロードURLの発行を記録する。
func (c *Collector) RecordUploadURLIssued() {
	c.uploadURLs.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

var _ MetricsCollector = (*Collector)(nil)
