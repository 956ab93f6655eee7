package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hunky/internal/config"
	"hunky/internal/observability"
	"hunky/internal/refresh"
	"hunky/internal/session"
)

// Server is the sidecar diagnostics surface: health and metrics over
// HTTP, plus the background consumer that logs each rebuilt snapshot.
// The interactive surface lives in the embedding UI, not here.
type Server struct {
	cfg      *config.Config
	logger   *observability.Logger
	session  *session.Session
	pipeline *refresh.Pipeline
	http     *http.Server
}

func NewServer(cfg *config.Config, logger *observability.Logger, sess *session.Session, pipeline *refresh.Pipeline) *Server {

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		session:  sess,
		pipeline: pipeline,
	}

	s.http = &http.Server{
		Addr:         cfg.MetricsAddr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	s.routes()

	return s
}

func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.http.Shutdown(context.Background())
	}()

	go s.consumeSnapshots(ctx)

	s.logger.Info("starting diagnostics server",
		"addr", s.cfg.MetricsAddr,
		"env", s.cfg.Env,
	)

	if err := s.http.ListenAndServe(); err != nil &&
		err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

func (s *Server) consumeSnapshots(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-s.pipeline.Snapshots():
			hunks := 0
			for _, f := range snap.Files {
				hunks += len(f.Hunks)
			}
			s.logger.Info("snapshot rebuilt",
				"files", len(snap.Files),
				"hunks", hunks,
			)
		}
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// commits lists the most recent commits, newest first, bounded by the
// configured limit.
func (s *Server) commits(w http.ResponseWriter, r *http.Request) {
	commits, err := s.session.RecentCommits(r.Context(), s.cfg.CommitLimit)
	if err != nil {
		s.logger.Error("list commits failed", "err", err)
		http.Error(w, "failed to list commits", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(commits)
}
