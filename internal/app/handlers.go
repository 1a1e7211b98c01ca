// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/relabs-tech/minevisit/internal/camera"
	"github.com/relabs-tech/minevisit/internal/visit"
)

// maxFormBytes bounds a submitted form body.
const maxFormBytes = 1 << 20

// Handler exposes the visit controller over HTTP.
type Handler struct {
	ctrl *visit.Controller
}

func NewHandler(ctrl *visit.Controller) *Handler {
	return &Handler{ctrl: ctrl}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	log.Printf("web: %s", message)
	http.Error(w, message, code)
}

func (h *Handler) writeControllerError(w http.ResponseWriter, err error) {
	if errors.Is(err, visit.ErrStopped) {
		h.writeError(w, "visit form is shutting down", http.StatusServiceUnavailable)
		return
	}
	h.writeError(w, err.Error(), http.StatusInternalServerError)
}

// HandleLocation issues a position request. The outcome arrives over the
// websocket.
func (h *Handler) HandleLocation(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.RequestLocation(); err != nil {
		h.writeControllerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// HandleCamera issues a camera request. The outcome arrives over the
// websocket.
func (h *Handler) HandleCamera(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.StartCamera(); err != nil {
		h.writeControllerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// HandleCapture takes a still from the attached camera.
func (h *Handler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	n, err := h.ctrl.Capture()
	if err != nil {
		h.writeControllerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"images": n})
}

// HandleSubmit stores the posted form values as the visit record and
// returns its dump.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var form visit.Form
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(&form); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.ctrl.Submit(form)
	if err != nil {
		h.writeControllerError(w, err)
		return
	}
	h.writeRecord(w, r, rec)
}

// HandleRecord returns the last submitted record as JSON, or YAML with
// ?format=yaml.
func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	st, err := h.ctrl.State()
	if err != nil {
		h.writeControllerError(w, err)
		return
	}
	if st.Record == nil {
		h.writeError(w, "no visit submitted yet", http.StatusNotFound)
		return
	}
	h.writeRecord(w, r, *st.Record)
}

func (h *Handler) writeRecord(w http.ResponseWriter, r *http.Request, rec visit.Record) {
	var (
		body        []byte
		err         error
		contentType string
	)
	if r.URL.Query().Get("format") == "yaml" {
		body, err = rec.DumpYAML()
		contentType = "application/yaml; charset=utf-8"
	} else {
		body, err = rec.DumpJSON()
		contentType = "application/json; charset=utf-8"
	}
	if err != nil {
		h.writeError(w, "Failed to render record: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(body); err != nil {
		log.Printf("web: write record error: %v", err)
	}
}

// HandleState returns everything the page renders.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	st, err := h.ctrl.State()
	if err != nil {
		h.writeControllerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

// HandleDefaults returns the initial form values.
func (h *Handler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, visit.DefaultForm())
}

// HandlePreview returns the latest camera frame as JPEG.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	stream, ok, err := h.ctrl.Stream()
	if err != nil {
		h.writeControllerError(w, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	data, err := camera.EncodePreview(stream)
	if errors.Is(err, camera.ErrNoFrame) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		log.Printf("web: write preview error: %v", err)
	}
}
