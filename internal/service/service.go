package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"modcanvas/internal/canvas"
	"modcanvas/internal/catalog"
	"modcanvas/internal/codec"
	"modcanvas/internal/domain"
	"modcanvas/internal/gesture"
	"modcanvas/internal/render"
	"modcanvas/internal/repository"
)

var (
	// ErrUnknownPointer is returned for moves and releases on a pointer no
	// gesture holds
	ErrUnknownPointer = errors.New("pointer not captured")
	// ErrNoRepository is returned by snapshot operations when no store is configured
	ErrNoRepository = errors.New("snapshot storage not configured")
)

// CanvasService coordinates the graph state store, the gesture controller
// and the template catalog. Every operation runs to completion under one
// lock, so events are handled strictly one at a time.
type CanvasService struct {
	mu       sync.Mutex
	store    *canvas.Store
	gestures *gesture.Controller
	catalog  *catalog.Catalog
	repo     repository.SnapshotRepository
	eventBus *EventBus
	preview  render.Options
}

// NewCanvasService creates a new canvas service. repo may be nil, in which
// case snapshot operations return ErrNoRepository.
func NewCanvasService(store *canvas.Store, cat *catalog.Catalog, repo repository.SnapshotRepository, eventBus *EventBus) *CanvasService {
	if cat == nil {
		cat = catalog.Default()
	}
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	return &CanvasService{
		store:    store,
		gestures: gesture.NewController(store, nil),
		catalog:  cat,
		repo:     repo,
		eventBus: eventBus,
		preview:  render.DefaultOptions(),
	}
}

// SetPreviewOptions sets the size of rendered previews
func (s *CanvasService) SetPreviewOptions(opts render.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = opts
}

// publishCanvas republishes the full view-model. Callers hold s.mu.
func (s *CanvasService) publishCanvas(t EventType, detail interface{}) {
	s.eventBus.Publish(Event{
		Type:    t,
		Payload: CanvasPayload{Canvas: s.store.View(), Detail: detail},
	})
}

// View returns the current view-model
func (s *CanvasService) View() *domain.Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.View()
}

// Node returns a single node by id
func (s *CanvasService) Node(id int) (domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.store.Node(id)
	if !ok {
		return domain.Node{}, fmt.Errorf("%w: %d", canvas.ErrNodeNotFound, id)
	}
	return n, nil
}

// Templates returns the active catalog in selector order
func (s *CanvasService) Templates() []domain.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.List()
}

// Catalog returns the active catalog
func (s *CanvasService) Catalog() *catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// SetCatalog swaps the template catalog. Nodes already placed keep their
// template values.
func (s *CanvasService) SetCatalog(cat *catalog.Catalog) {
	if cat == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = cat
	log.Printf("Catalog reloaded from %s (%d templates)", cat.Source(), cat.Len())

	s.eventBus.Publish(Event{
		Type: EventCatalogReloaded,
		Payload: map[string]interface{}{
			"source":    cat.Source(),
			"templates": cat.List(),
		},
	})
}

// AddModule places a new node built from the template with the given key
func (s *CanvasService) AddModule(key string) (domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl, err := s.catalog.Get(key)
	if err != nil {
		return domain.Node{}, err
	}

	node := s.store.AddNode(tmpl)
	s.publishCanvas(EventNodeAdded, node)
	return node, nil
}

// GestureStart describes the outcome of a pointer press
type GestureStart struct {
	Pointer gesture.PointerID `json:"pointer_id"`
	NodeID  int               `json:"node_id"`
	Started bool              `json:"started"`
}

// PointerDown presses on a node. An empty pointer id is replaced by a fresh
// one. Presses on the root node report Started=false.
func (s *CanvasService) PointerDown(pointer string, nodeID int, x, y float64) (*GestureStart, error) {
	if pointer == "" {
		pointer = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pid := gesture.PointerID(pointer)
	started, err := s.gestures.PointerDown(pid, nodeID, domain.NewPoint(x, y))
	if err != nil {
		return nil, err
	}
	return &GestureStart{Pointer: pid, NodeID: nodeID, Started: started}, nil
}

// PointerMove forwards a move sample to the gestures holding pointer
func (s *CanvasService) PointerMove(pointer string, x, y float64) (*domain.Canvas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pid := gesture.PointerID(pointer)
	if !s.gestures.Captured(pid) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPointer, pointer)
	}

	if _, err := s.gestures.PointerMove(pid, domain.NewPoint(x, y)); err != nil {
		return nil, err
	}

	view := s.store.View()
	s.eventBus.Publish(Event{
		Type:    EventNodeMoved,
		Payload: CanvasPayload{Canvas: view, Detail: map[string]interface{}{"pointer_id": pointer}},
	})
	return view, nil
}

// PointerUp ends every gesture holding pointer
func (s *CanvasService) PointerUp(pointer string) ([]gesture.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pid := gesture.PointerID(pointer)
	if !s.gestures.Captured(pid) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPointer, pointer)
	}

	releases, err := s.gestures.PointerUp(pid, domain.Point{})
	if err != nil {
		return releases, err
	}

	for _, rel := range releases {
		if rel.Connected {
			s.publishCanvas(EventConnectionCreated, rel.Connection)
		}
	}
	s.publishCanvas(EventGestureEnded, releases)
	return releases, nil
}

// Dragging returns the ids of nodes mid-gesture
func (s *CanvasService) Dragging() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gestures.Dragging()
}

// Reset clears the canvas back to the root node and drops every gesture
func (s *CanvasService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gestures.Reset()
	s.store.Reset()
	s.publishCanvas(EventCanvasRestored, map[string]string{"action": "reset"})
}

// Document exports the current canvas state
func (s *CanvasService) Document() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Document()
}

// restore replaces the store state. Callers hold s.mu.
func (s *CanvasService) restore(doc *domain.Document, detail interface{}) error {
	if err := s.store.Restore(doc); err != nil {
		return err
	}
	s.gestures.Reset()
	s.publishCanvas(EventCanvasRestored, detail)
	return nil
}

// Snapshot operations

// SaveSnapshot stores the current canvas under name
func (s *CanvasService) SaveSnapshot(ctx context.Context, name string) (*domain.SnapshotInfo, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	if name == "" {
		return nil, fmt.Errorf("snapshot name required")
	}

	s.mu.Lock()
	snap := domain.NewSnapshot(name, s.store.Document())
	s.mu.Unlock()

	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{Type: EventSnapshotSaved, Payload: snap.SnapshotInfo})
	return &snap.SnapshotInfo, nil
}

// ListSnapshots returns stored snapshot summaries
func (s *CanvasService) ListSnapshots(ctx context.Context) ([]domain.SnapshotInfo, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	return s.repo.ListSnapshots(ctx)
}

// RestoreSnapshot replaces the canvas with a stored snapshot
func (s *CanvasService) RestoreSnapshot(ctx context.Context, name string) (*domain.Canvas, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}

	snap, err := s.repo.GetSnapshot(ctx, name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.restore(snap.Document, map[string]string{"snapshot": name}); err != nil {
		return nil, fmt.Errorf("restore snapshot %s: %w", name, err)
	}
	log.Printf("Restored snapshot %s (%d nodes, %d edges)", name, snap.NodeCount, snap.EdgeCount)
	return s.store.View(), nil
}

// DeleteSnapshot removes a stored snapshot
func (s *CanvasService) DeleteSnapshot(ctx context.Context, name string) error {
	if s.repo == nil {
		return ErrNoRepository
	}
	if err := s.repo.DeleteSnapshot(ctx, name); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventSnapshotDeleted,
		Payload: map[string]string{"name": name},
	})
	return nil
}

// Import and export

// ImportResult represents the result of an import operation
type ImportResult struct {
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
	Format string `json:"format"`
}

// Import replaces the canvas with a document in the given format
func (s *CanvasService) Import(format string, r io.Reader) (*ImportResult, error) {
	importer, _, err := codec.ForFormat(format)
	if err != nil {
		return nil, err
	}

	doc, err := importer.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := &ImportResult{Nodes: len(doc.Nodes), Edges: len(doc.Edges), Format: importer.Format()}
	if err := s.restore(doc, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ImportJSON imports a canvas document from JSON
func (s *CanvasService) ImportJSON(data []byte) (*ImportResult, error) {
	return s.Import("json", bytes.NewReader(data))
}

// ImportYAML imports a canvas document from YAML
func (s *CanvasService) ImportYAML(data []byte) (*ImportResult, error) {
	return s.Import("yaml", bytes.NewReader(data))
}

// Export writes the canvas document in the given format
func (s *CanvasService) Export(format string, w io.Writer) error {
	_, exporter, err := codec.ForFormat(format)
	if err != nil {
		return err
	}
	return exporter.Export(s.Document(), w)
}

// ExportJSON exports the canvas as JSON
func (s *CanvasService) ExportJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Export("json", &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportYAML exports the canvas as YAML
func (s *CanvasService) ExportYAML(w io.Writer) error {
	return s.Export("yaml", w)
}

// RenderPreview draws the current view-model as PNG
func (s *CanvasService) RenderPreview(w io.Writer) error {
	s.mu.Lock()
	view := s.store.View()
	opts := s.preview
	s.mu.Unlock()

	return render.PNG(w, view, opts)
}
