// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/relabs-tech/minevisit/internal/config"
	"github.com/relabs-tech/minevisit/internal/visit"
)

// RunWeb serves the visit form until ctx is cancelled.
func RunWeb(ctx context.Context, cfg *config.Config) error {
	composer, err := NewComposer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create snapshot composer: %w", err)
	}

	hub := NewHub()
	ctrl := visit.NewController(visit.Options{
		Locator:       NewLocator(cfg),
		Camera:        NewCamera(cfg),
		Composer:      composer,
		Notifier:      hub,
		LocateTimeout: time.Duration(cfg.GPSTimeout) * time.Millisecond,
	})
	log.Printf("web: geolocation source %q, camera source %q", cfg.GPSSource, cfg.CameraSource)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	ctrlDone := make(chan struct{})
	go func() {
		defer close(ctrlDone)
		ctrl.Run(runCtx)
	}()

	updates, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()
	go hub.Forward(runCtx, updates)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	server := &http.Server{
		Addr:    addr,
		Handler: NewRouter(NewHandler(ctrl), hub, cfg.WebStaticDir),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("web server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("web: shutting down server...")
	case err = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := server.Shutdown(shutdownCtx); serr != nil {
		log.Printf("web: server shutdown failed: %v", serr)
	}
	hub.Close()
	stop()
	<-ctrlDone

	log.Println("web: server stopped")
	return err
}
