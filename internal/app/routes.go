package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hunky/internal/observability"
)

func (s *Server) routes() {
	if s.http == nil {
		return
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.health)
	mux.HandleFunc("/commits", s.commits)
	mux.Handle("/metrics", promhttp.Handler())

	observability.InitMetrics()

	s.http.Handler = mux
}
