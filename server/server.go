// Package server assembles the HTTP server around the store and the
// v1 API services.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vocavault/vocavault/internal/profile"
	"github.com/vocavault/vocavault/server/middleware"
	apiv1 "github.com/vocavault/vocavault/server/router/api/v1"
	"github.com/vocavault/vocavault/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiV1      *apiv1.APIV1Service
	stopCh     chan struct{}
}

func NewServer(_ context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.Debug = profile.IsDev()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Profile:    profile,
		Store:      store,
		echoServer: e,
		stopCh:     make(chan struct{}),
	}

	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))
	e.Use(echomw.TimeoutWithConfig(echomw.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))

	limiter := middleware.NewRateLimiter(10, 20)
	limiter.StartCleanup(10*time.Minute, s.stopCh)
	e.Use(limiter.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": profile.Version,
		})
	})

	s.apiV1 = apiv1.NewAPIV1Service(profile, store)
	s.apiV1.RegisterRoutes(e)

	return s, nil
}

// Start runs the HTTP listener until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server listening", slog.String("address", address), slog.String("mode", s.Profile.Mode))

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server failed")
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		return nil
	})
	return group.Wait()
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	close(s.stopCh)
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down http server", slog.Any("err", err))
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", slog.Any("err", err))
	}
	slog.Info("server shut down")
}
