package router

import (
	"net/http"

	_ "github.com/princekumarofficial/multipost-api/docs"
	"github.com/princekumarofficial/multipost-api/internal/http/handlers/diagnostics"
	"github.com/princekumarofficial/multipost-api/internal/http/handlers/media"
	"github.com/princekumarofficial/multipost-api/internal/http/handlers/root"
	"github.com/princekumarofficial/multipost-api/internal/http/middleware"
	"github.com/princekumarofficial/multipost-api/internal/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

const uploadAction = "upload"

type Deps struct {
	Prober    diagnostics.Prober
	Publisher media.Publisher
	// Limiter throttles uploads when set.
	Limiter        *ratelimit.TokenBucket
	Registry       *prometheus.Registry
	MaxMemoryBytes int64
	MaxBodyBytes   int64
}

// New wires every route behind the request-ID, CORS and metrics middleware.
func New(d Deps) http.Handler {
	router := http.NewServeMux()

	mediaHandlers := media.NewMediaHandlers(d.Publisher, d.MaxMemoryBytes, d.MaxBodyBytes)

	var upload http.Handler = mediaHandlers.Upload()
	if d.Limiter != nil {
		upload = middleware.RateLimit(d.Limiter, uploadAction)(upload)
	}

	router.HandleFunc("GET /{$}", root.Root())
	router.HandleFunc("GET /api/hello", root.Hello())
	router.HandleFunc("GET /test", diagnostics.Test(d.Prober))
	router.Handle("POST /api/upload", upload)

	router.Handle("GET /metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{Registry: d.Registry}))
	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	metrics := middleware.NewMetrics(d.Registry)

	return middleware.RequestID(middleware.CORS()(metrics.Handler(router)))
}
