package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/rw-r-r-0644/oj-contest/contest"
	"github.com/rw-r-r-0644/oj-contest/ojapi"
	"github.com/rw-r-r-0644/oj-contest/snapshot"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve contest page views as JSON over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "address", Usage: "Listen address (default from config, :8080)"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			addr := e.cfg.Serve.Address
			if v := c.String("address"); v != "" {
				addr = v
			}
			vs := &viewServer{client: e.client, logger: e.logger, registry: e.registry, now: time.Now}
			return listen(c.Context, addr, vs.routes(), e.logger)
		},
	}
}

func listen(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("view server listening", slog.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type viewServer struct {
	client   ojapi.Client
	logger   *slog.Logger
	registry *prometheus.Registry
	now      func() time.Time
}

func (s *viewServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/backends", s.handleBackends)
	r.Get("/contests/{contestID}", s.handleView)
	r.Get("/contests/{contestID}/problems", s.handleProblems)
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *viewServer) handleBackends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ojapi.Backends())
}

// handleView answers with the full derived page. ?now= overrides the clock.
func (s *viewServer) handleView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "contestID")

	now, err := parseNow(r.URL.Query().Get("now"), s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	store := contest.NewStore(s.client, contest.StaticRoute(id), contest.WithLogger(s.logger))
	profile, err := s.client.GetProfile(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "profile lookup failed, continuing anonymously",
			slog.String("request_id", middleware.GetReqID(ctx)), slog.Any("error", err))
	}

	if _, err := store.GetContest(ctx); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	store.GetContestProblems(ctx)
	store.Commit(contest.SetNow{Now: now})

	writeJSON(w, http.StatusOK, store.View(contest.ViewerFromProfile(profile)))
}

func (s *viewServer) handleProblems(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contestID")
	store := contest.NewStore(s.client, contest.StaticRoute(id), contest.WithLogger(s.logger))
	writeJSON(w, http.StatusOK, store.GetContestProblems(r.Context()))
}

func statusFor(err error) int {
	var apiErr *ojapi.APIError
	if errors.As(err, &apiErr) || errors.Is(err, snapshot.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
