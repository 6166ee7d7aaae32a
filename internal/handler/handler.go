package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"modcanvas/internal/canvas"
	"modcanvas/internal/catalog"
	"modcanvas/internal/domain"
	"modcanvas/internal/gesture"
	"modcanvas/internal/repository"
	"modcanvas/internal/service"
)

// maxImportSize bounds request bodies on the import endpoints
const maxImportSize = 4 << 20

// CanvasHandler handles canvas API requests
type CanvasHandler struct {
	svc *service.CanvasService
}

// NewCanvasHandler creates a new canvas handler
func NewCanvasHandler(svc *service.CanvasService) *CanvasHandler {
	return &CanvasHandler{svc: svc}
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RegisterRoutes mounts the API on mux
func (h *CanvasHandler) RegisterRoutes(mux *http.ServeMux) {
	// Canvas
	mux.HandleFunc("GET /api/canvas", h.GetCanvas)
	mux.HandleFunc("DELETE /api/canvas", h.ResetCanvas)
	mux.HandleFunc("GET /api/templates", h.ListTemplates)

	// Nodes
	mux.HandleFunc("POST /api/nodes", h.AddNode)
	mux.HandleFunc("GET /api/nodes/{id}", h.GetNode)

	// Gestures
	mux.HandleFunc("GET /api/gestures", h.ListGestures)
	mux.HandleFunc("POST /api/gestures", h.PointerDown)
	mux.HandleFunc("POST /api/gestures/{pointer}/move", h.PointerMove)
	mux.HandleFunc("POST /api/gestures/{pointer}/release", h.PointerUp)

	// Snapshots
	mux.HandleFunc("GET /api/snapshots", h.ListSnapshots)
	mux.HandleFunc("POST /api/snapshots", h.SaveSnapshot)
	mux.HandleFunc("POST /api/snapshots/{name}/restore", h.RestoreSnapshot)
	mux.HandleFunc("DELETE /api/snapshots/{name}", h.DeleteSnapshot)

	// Import/export
	mux.HandleFunc("GET /api/export/json", h.ExportJSON)
	mux.HandleFunc("GET /api/export/yaml", h.ExportYAML)
	mux.HandleFunc("POST /api/import/json", h.ImportJSON)
	mux.HandleFunc("POST /api/import/yaml", h.ImportYAML)

	mux.HandleFunc("GET /api/preview.png", h.Preview)
}

// GetCanvas returns the current view-model
func (h *CanvasHandler) GetCanvas(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.View(), http.StatusOK)
}

// ResetCanvas clears the canvas back to its root node
func (h *CanvasHandler) ResetCanvas(w http.ResponseWriter, r *http.Request) {
	h.svc.Reset()
	h.writeJSON(w, h.svc.View(), http.StatusOK)
}

// ListTemplates returns the template catalog
func (h *CanvasHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Templates(), http.StatusOK)
}

// AddNodeRequest selects a template from the catalog
type AddNodeRequest struct {
	Template string `json:"template"`
}

// AddNode places a new module on the canvas
func (h *CanvasHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	var req AddNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Template == "" {
		h.writeError(w, "Template is required", "", http.StatusBadRequest)
		return
	}

	node, err := h.svc.AddModule(req.Template)
	if err != nil {
		h.writeServiceError(w, "Failed to add node", err)
		return
	}

	h.writeJSON(w, node, http.StatusCreated)
}

// GetNode returns a single node
func (h *CanvasHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeError(w, "Invalid node ID", err.Error(), http.StatusBadRequest)
		return
	}

	node, err := h.svc.Node(id)
	if err != nil {
		h.writeServiceError(w, "Failed to get node", err)
		return
	}

	h.writeJSON(w, node, http.StatusOK)
}

// PointerDownRequest presses a pointer on a node
type PointerDownRequest struct {
	PointerID string  `json:"pointer_id,omitempty"`
	NodeID    int     `json:"node_id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// PointerMoveRequest is a pointer position sample
type PointerMoveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ListGestures returns the ids of nodes being dragged
func (h *CanvasHandler) ListGestures(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string][]int{"dragging": h.svc.Dragging()}, http.StatusOK)
}

// PointerDown starts a drag gesture
func (h *CanvasHandler) PointerDown(w http.ResponseWriter, r *http.Request) {
	var req PointerDownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	start, err := h.svc.PointerDown(req.PointerID, req.NodeID, req.X, req.Y)
	if err != nil {
		h.writeServiceError(w, "Failed to start gesture", err)
		return
	}

	status := http.StatusCreated
	if !start.Started {
		status = http.StatusOK
	}
	h.writeJSON(w, start, status)
}

// PointerMove forwards a move sample to the gesture holding the pointer
func (h *CanvasHandler) PointerMove(w http.ResponseWriter, r *http.Request) {
	var req PointerMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.svc.PointerMove(r.PathValue("pointer"), req.X, req.Y)
	if err != nil {
		h.writeServiceError(w, "Failed to move pointer", err)
		return
	}

	h.writeJSON(w, view, http.StatusOK)
}

// PointerUp ends the gestures holding the pointer
func (h *CanvasHandler) PointerUp(w http.ResponseWriter, r *http.Request) {
	releases, err := h.svc.PointerUp(r.PathValue("pointer"))
	if err != nil {
		h.writeServiceError(w, "Failed to release pointer", err)
		return
	}

	h.writeJSON(w, map[string][]gesture.Release{"released": releases}, http.StatusOK)
}

// SaveSnapshotRequest names a snapshot
type SaveSnapshotRequest struct {
	Name string `json:"name"`
}

// ListSnapshots returns stored snapshots
func (h *CanvasHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	infos, err := h.svc.ListSnapshots(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list snapshots", err)
		return
	}

	h.writeJSON(w, infos, http.StatusOK)
}

// SaveSnapshot stores the current canvas
func (h *CanvasHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SaveSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		h.writeError(w, "Snapshot name is required", "", http.StatusBadRequest)
		return
	}

	info, err := h.svc.SaveSnapshot(r.Context(), req.Name)
	if err != nil {
		h.writeServiceError(w, "Failed to save snapshot", err)
		return
	}

	h.writeJSON(w, info, http.StatusCreated)
}

// RestoreSnapshot replaces the canvas with a stored snapshot
func (h *CanvasHandler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.RestoreSnapshot(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeServiceError(w, "Failed to restore snapshot", err)
		return
	}

	h.writeJSON(w, view, http.StatusOK)
}

// DeleteSnapshot removes a stored snapshot
func (h *CanvasHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSnapshot(r.Context(), r.PathValue("name")); err != nil {
		h.writeServiceError(w, "Failed to delete snapshot", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportJSON exports the canvas document as JSON
func (h *CanvasHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportJSON()
	if err != nil {
		log.Printf("Failed to export JSON: %v", err)
		h.writeError(w, "Failed to export", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=canvas.json")
	w.Write(data)
}

// ExportYAML exports the canvas document as YAML
func (h *CanvasHandler) ExportYAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", "attachment; filename=canvas.yaml")

	if err := h.svc.ExportYAML(w); err != nil {
		log.Printf("Failed to export YAML: %v", err)
	}
}

// ImportJSON replaces the canvas with a JSON document
func (h *CanvasHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	h.importDocument(w, r, "json")
}

// ImportYAML replaces the canvas with a YAML document
func (h *CanvasHandler) ImportYAML(w http.ResponseWriter, r *http.Request) {
	h.importDocument(w, r, "yaml")
}

func (h *CanvasHandler) importDocument(w http.ResponseWriter, r *http.Request, format string) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, "Document too large",
				fmt.Sprintf("import body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		h.writeError(w, "Failed to read request body", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Import(format, bytes.NewReader(data))
	if err != nil {
		h.writeServiceError(w, "Failed to import", err)
		return
	}

	h.writeJSON(w, result, http.StatusOK)
}

// Preview renders the canvas as PNG
func (h *CanvasHandler) Preview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")

	if err := h.svc.RenderPreview(w); err != nil {
		log.Printf("Failed to render preview: %v", err)
	}
}

// statusFor maps service and store errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, canvas.ErrNodeNotFound),
		errors.Is(err, gesture.ErrUnknownNode),
		errors.Is(err, service.ErrUnknownPointer),
		errors.Is(err, repository.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrUnknownTemplate),
		errors.Is(err, canvas.ErrRootImmovable),
		errors.Is(err, domain.ErrInvalidDocument):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoRepository):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *CanvasHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", msg, err)
	}
	h.writeError(w, msg, err.Error(), status)
}

func (h *CanvasHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *CanvasHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
