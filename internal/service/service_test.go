package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modcanvas/internal/canvas"
	"modcanvas/internal/catalog"
	"modcanvas/internal/domain"
	"modcanvas/internal/render"
	"modcanvas/internal/repository"
	"modcanvas/internal/repository/sqlite"
)

func newTestService(t *testing.T) (*CanvasService, chan Event) {
	t.Helper()

	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	bus := NewEventBus()
	events := make(chan Event, 64)
	bus.Subscribe(events)

	svc := NewCanvasService(canvas.NewStore(canvas.DefaultSettings()), catalog.Default(), repo, bus)
	return svc, events
}

func drain(ch chan Event) []EventType {
	var types []EventType
	for {
		select {
		case ev := <-ch:
			types = append(types, ev.Type)
		default:
			return types
		}
	}
}

// dragLinearOntoRoot adds a LINEAR node and drags it to (110,210),
// centre (155,255), about 7 from the root centre
func dragLinearOntoRoot(t *testing.T, svc *CanvasService) domain.Node {
	t.Helper()

	node, err := svc.AddModule("LINEAR")
	require.NoError(t, err)

	start, err := svc.PointerDown("p1", node.ID, 320, 220)
	require.NoError(t, err)
	require.True(t, start.Started)

	view, err := svc.PointerMove("p1", 130, 230)
	require.NoError(t, err)
	nv, ok := view.Node(node.ID)
	require.True(t, ok)
	assert.Equal(t, 110.0, nv.X)
	assert.Equal(t, 210.0, nv.Y)
	assert.True(t, nv.IsConnectable)

	return node
}

func TestAddModule(t *testing.T) {
	svc, events := newTestService(t)

	node, err := svc.AddModule("LINEAR")
	require.NoError(t, err)
	assert.Equal(t, 2, node.ID)
	assert.Equal(t, "Linear Layer", node.Label)
	assert.Equal(t, domain.NewPoint(300, 200), node.Position)

	assert.Equal(t, []EventType{EventNodeAdded}, drain(events))

	_, err = svc.AddModule("POOLING")
	assert.True(t, errors.Is(err, catalog.ErrUnknownTemplate))
	assert.Len(t, svc.View().Nodes, 2)
	assert.Empty(t, drain(events))
}

func TestGestureConnectsToRoot(t *testing.T) {
	svc, events := newTestService(t)
	node := dragLinearOntoRoot(t, svc)

	releases, err := svc.PointerUp("p1")
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.True(t, releases[0].Connected)
	assert.Equal(t, domain.NewConnection(node.ID, 1), releases[0].Connection)

	view := svc.View()
	assert.Equal(t, []domain.Connection{{From: node.ID, To: 1}}, view.Edges)
	nv, _ := view.Node(node.ID)
	assert.False(t, nv.IsConnectable)

	assert.Equal(t, []EventType{
		EventNodeAdded, EventNodeMoved, EventConnectionCreated, EventGestureEnded,
	}, drain(events))

	assert.Empty(t, svc.Dragging())
}

func TestPointerDownAssignsPointer(t *testing.T) {
	svc, _ := newTestService(t)
	node, err := svc.AddModule("CONV")
	require.NoError(t, err)

	start, err := svc.PointerDown("", node.ID, 310, 210)
	require.NoError(t, err)
	assert.NotEmpty(t, start.Pointer)
	assert.Equal(t, []int{node.ID}, svc.Dragging())

	_, err = svc.PointerMove(string(start.Pointer), 600, 300)
	require.NoError(t, err)
	releases, err := svc.PointerUp(string(start.Pointer))
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.False(t, releases[0].Connected)
	assert.Empty(t, svc.View().Edges)
}

func TestPointerDownOnRoot(t *testing.T) {
	svc, _ := newTestService(t)

	start, err := svc.PointerDown("p1", 1, 120, 220)
	require.NoError(t, err)
	assert.False(t, start.Started)

	_, err = svc.PointerMove("p1", 500, 500)
	assert.True(t, errors.Is(err, ErrUnknownPointer))

	root, err := svc.Node(1)
	require.NoError(t, err)
	assert.Equal(t, domain.NewPoint(100, 200), root.Position)
}

func TestPointerErrors(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.PointerDown("p1", 42, 0, 0)
	assert.Error(t, err)

	_, err = svc.PointerUp("nobody")
	assert.True(t, errors.Is(err, ErrUnknownPointer))

	_, err = svc.Node(42)
	assert.True(t, errors.Is(err, canvas.ErrNodeNotFound))
}

func TestSnapshots(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	node := dragLinearOntoRoot(t, svc)
	_, err := svc.PointerUp("p1")
	require.NoError(t, err)
	drain(events)

	info, err := svc.SaveSnapshot(ctx, "linked")
	require.NoError(t, err)
	assert.Equal(t, 2, info.NodeCount)
	assert.Equal(t, 1, info.EdgeCount)

	svc.Reset()
	assert.Len(t, svc.View().Nodes, 1)
	assert.Empty(t, svc.View().Edges)

	view, err := svc.RestoreSnapshot(ctx, "linked")
	require.NoError(t, err)
	assert.Len(t, view.Nodes, 2)
	assert.Equal(t, []domain.Connection{{From: node.ID, To: 1}}, view.Edges)

	// Ids continue after the restored maximum
	next, err := svc.AddModule("ACTIVATION")
	require.NoError(t, err)
	assert.Equal(t, 3, next.ID)

	infos, err := svc.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "linked", infos[0].Name)

	require.NoError(t, svc.DeleteSnapshot(ctx, "linked"))
	_, err = svc.RestoreSnapshot(ctx, "linked")
	assert.True(t, errors.Is(err, repository.ErrSnapshotNotFound))

	assert.Equal(t, []EventType{
		EventSnapshotSaved, EventCanvasRestored, EventCanvasRestored, EventNodeAdded, EventSnapshotDeleted,
	}, drain(events))
}

func TestSaveSnapshotOverwriteKeepsCreatedAt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.SaveSnapshot(ctx, "work")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = svc.AddModule("LINEAR")
	require.NoError(t, err)
	second, err := svc.SaveSnapshot(ctx, "work")
	require.NoError(t, err)

	assert.True(t, second.CreatedAt.Equal(first.CreatedAt), "created_at %v, want %v", second.CreatedAt, first.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, 2, second.NodeCount)

	infos, err := svc.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.True(t, infos[0].CreatedAt.Equal(second.CreatedAt))
}

func TestSnapshotsWithoutRepository(t *testing.T) {
	svc := NewCanvasService(canvas.NewStore(canvas.DefaultSettings()), nil, nil, nil)

	_, err := svc.SaveSnapshot(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrNoRepository))
	_, err = svc.ListSnapshots(context.Background())
	assert.True(t, errors.Is(err, ErrNoRepository))
}

func TestImportExport(t *testing.T) {
	svc, _ := newTestService(t)
	dragLinearOntoRoot(t, svc)
	_, err := svc.PointerUp("p1")
	require.NoError(t, err)

	data, err := svc.ExportJSON()
	require.NoError(t, err)

	var yamlBuf bytes.Buffer
	require.NoError(t, svc.ExportYAML(&yamlBuf))

	svc.Reset()
	result, err := svc.ImportJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Nodes)
	assert.Equal(t, 1, result.Edges)
	assert.Len(t, svc.View().Edges, 1)

	svc.Reset()
	result, err = svc.ImportYAML(yamlBuf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "yaml", result.Format)
	assert.Len(t, svc.View().Nodes, 2)
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	svc, _ := newTestService(t)
	svc.AddModule("LINEAR")

	// Two roots
	bad := `{"version":1,"next_id":3,"nodes":[
		{"id":1,"position":{"x":0,"y":0},"radius":50,"label":"a","color":"#fff","template":"INPUT","is_root":true,"is_connectable":false,"connections":[]},
		{"id":2,"position":{"x":0,"y":0},"radius":50,"label":"b","color":"#fff","template":"INPUT","is_root":true,"is_connectable":false,"connections":[]}
	],"edges":[]}`
	_, err := svc.Import("json", strings.NewReader(bad))
	assert.True(t, errors.Is(err, domain.ErrInvalidDocument))

	_, err = svc.Import("json", strings.NewReader("{"))
	assert.True(t, errors.Is(err, domain.ErrInvalidDocument))

	// State untouched
	assert.Len(t, svc.View().Nodes, 2)
}

func TestSetCatalog(t *testing.T) {
	svc, events := newTestService(t)

	cat, err := catalog.New([]domain.Template{
		{Key: "POOL", Label: "MaxPool", Color: "#f6ad55", Radius: 35},
	})
	require.NoError(t, err)
	svc.SetCatalog(cat)

	assert.Equal(t, []EventType{EventCatalogReloaded}, drain(events))
	assert.Len(t, svc.Templates(), 1)

	node, err := svc.AddModule("POOL")
	require.NoError(t, err)
	assert.Equal(t, 35.0, node.Radius)

	_, err = svc.AddModule("LINEAR")
	assert.True(t, errors.Is(err, catalog.ErrUnknownTemplate))
}

func TestRenderPreview(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SetPreviewOptions(render.Options{Width: 200, Height: 100})
	svc.AddModule("ATTENTION")

	var buf bytes.Buffer
	require.NoError(t, svc.RenderPreview(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	a := make(chan Event, 1)
	b := make(chan Event, 1)
	bus.Subscribe(a)
	bus.Subscribe(b)
	bus.Unsubscribe(a)

	bus.Publish(Event{Type: EventNodeAdded})
	assert.Len(t, a, 0)
	assert.Len(t, b, 1)

	// Full subscribers are skipped, not blocked on
	bus.Publish(Event{Type: EventNodeMoved})
	assert.Len(t, b, 1)
}
