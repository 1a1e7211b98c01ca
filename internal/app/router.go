// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter wires the page, the JSON API and the websocket.
func NewRouter(h *Handler, hub *Hub, staticDir string) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Printf("web: unable to write healthcheck: %v", err)
		}
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/location", h.HandleLocation).Methods("POST")
	api.HandleFunc("/camera", h.HandleCamera).Methods("POST")
	api.HandleFunc("/capture", h.HandleCapture).Methods("POST")
	api.HandleFunc("/visit", h.HandleSubmit).Methods("POST")
	api.HandleFunc("/visit", h.HandleRecord).Methods("GET")
	api.HandleFunc("/state", h.HandleState).Methods("GET")
	api.HandleFunc("/form/defaults", h.HandleDefaults).Methods("GET")
	api.HandleFunc("/preview.jpg", h.HandlePreview).Methods("GET")

	r.HandleFunc("/ws", hub.HandleWS)

	// Static files from ./web as the root. API paths stay out so a wrong
	// method on them still answers 405.
	r.PathPrefix("/").
		Methods("GET", "HEAD").
		MatcherFunc(outsideAPI).
		Handler(http.FileServer(http.Dir(staticDir)))
	return r
}

func outsideAPI(r *http.Request, _ *mux.RouteMatch) bool {
	return r.URL.Path != "/api" && !strings.HasPrefix(r.URL.Path, "/api/")
}

// statusRecorder remembers the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack keeps websocket upgrades working through the recorder.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if r.URL.RawQuery != "" {
			path = path + "?" + r.URL.RawQuery
		}
		log.Printf("[%s] %s %s %d %v", r.Method, path, r.RemoteAddr, rec.status, time.Since(start))
	})
}
