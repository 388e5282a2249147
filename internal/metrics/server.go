package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Serve starts the Prometheus metrics listener on its own port so the
// scrape endpoint stays off the public API surface. It blocks; run it in
// a goroutine.
func Serve(port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().Str("port", port).Msg("metrics listener starting")
	return srv.ListenAndServe()
}
