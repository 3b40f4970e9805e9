// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	// Addr is the host:port listen address.
	Addr string

	// ReadTimeout bounds request reads.
	ReadTimeout time.Duration

	// WriteTimeout bounds response writes.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// Server runs the HTTP listener as a supervised service.
type Server struct {
	cfg ServerConfig
	srv *http.Server
	log zerolog.Logger
}

// NewServer builds the server around an assembled router.
func NewServer(cfg ServerConfig, handler http.Handler, log zerolog.Logger) *Server {
	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log: log.With().Str("component", "http").Logger(),
	}
}

// Serve listens until ctx is canceled, then shuts down gracefully. It
// implements suture.Service.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")

	errc := make(chan error, 1)
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
			return
		}
		errc <- nil
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn().Err(err).Msg("graceful shutdown incomplete, closing")
		s.srv.Close() //nolint:errcheck
	}
	<-errc
	return ctx.Err()
}

// String names the service for the supervisor tree.
func (s *Server) String() string {
	return "api.Server"
}
