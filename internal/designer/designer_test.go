package designer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore persists documents through a JSON round trip, the way the
// real store writes them to a jsonb column.
type fakeStore struct {
	docs    map[string][]byte
	titles  map[string]string
	nextID  int
	failAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:   make(map[string][]byte),
		titles: make(map[string]string),
	}
}

func (s *fakeStore) Get(_ context.Context, id string) (Document, error) {
	raw, ok := s.docs[id]
	if !ok {
		return Document{}, errors.New("not found")
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *fakeStore) Create(_ context.Context, title string, doc Document) (string, error) {
	if s.failAll {
		return "", errors.New("store unavailable")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	s.nextID++
	id := fmt.Sprintf("design-%d", s.nextID)
	s.docs[id] = raw
	s.titles[id] = title
	return id, nil
}

func (s *fakeStore) Update(_ context.Context, id, title string, doc Document) error {
	if s.failAll {
		return errors.New("store unavailable")
	}
	if _, ok := s.docs[id]; !ok {
		return errors.New("not found")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.docs[id] = raw
	s.titles[id] = title
	return nil
}

func elementIDs(doc Document) []string {
	ids := make([]string, len(doc.Elements))
	for i, el := range doc.Elements {
		ids[i] = el.ID
	}
	return ids
}

func TestAddElementDefaults(t *testing.T) {
	e := New(newFakeStore())

	text := e.AddElement(ElementText, "")
	require.Equal(t, ElementText, text.Type)
	assert.Equal(t, "New Text", text.Content)
	assert.Equal(t, 50.0, text.X)
	assert.Equal(t, 50.0, text.Y)
	assert.Equal(t, "1.25rem", text.Style["fontSize"])
	assert.Equal(t, text.ID, e.SelectedID())
	assert.True(t, e.Dirty())

	img := e.AddElement(ElementImage, "https://example.com/cat.png")
	assert.Equal(t, "150px", img.Style["width"])
	assert.Equal(t, img.ID, e.SelectedID())
	assert.NotEqual(t, text.ID, img.ID)
	assert.Len(t, e.Document().Elements, 2)
}

func TestUpdateElement(t *testing.T) {
	e := New(newFakeStore())
	el := e.AddElement(ElementText, "hello")

	x := 10.0
	color := "#ff0000"
	e.UpdateElement(el.ID, ElementPatch{X: &x, Style: map[string]any{"color": color}})

	got := e.Document().Elements[0]
	assert.Equal(t, 10.0, got.X)
	assert.Equal(t, 50.0, got.Y)
	assert.Equal(t, color, got.Style["color"])
	// Untouched style keys survive the merge.
	assert.Equal(t, "1.25rem", got.Style["fontSize"])
}

func TestUpdateElementUnknownIDIsNoOp(t *testing.T) {
	e := New(newFakeStore())
	e.AddElement(ElementText, "hello")
	require.True(t, e.CanUndo())

	before := e.Document()
	x := 99.0
	e.UpdateElement("missing", ElementPatch{X: &x})

	assert.Equal(t, before, e.Document())
	// No history entry was pushed for the no-op.
	e.Undo()
	assert.False(t, e.CanUndo())
}

func TestDeleteElementClearsSelection(t *testing.T) {
	e := New(newFakeStore())
	a := e.AddElement(ElementText, "a")
	b := e.AddElement(ElementText, "b")

	e.Select(a.ID)
	e.DeleteElement(a.ID)
	assert.Empty(t, e.SelectedID())
	assert.Equal(t, []string{b.ID}, elementIDs(e.Document()))

	// Deleting an unselected element keeps the selection.
	e.Select(b.ID)
	e.AddElement(ElementText, "c")
	c := e.SelectedID()
	e.Select(b.ID)
	e.DeleteElement(c)
	assert.Equal(t, b.ID, e.SelectedID())
}

func TestDuplicateElement(t *testing.T) {
	e := New(newFakeStore())
	orig := e.AddElement(ElementText, "hello")

	dup, ok := e.DuplicateElement(orig.ID)
	require.True(t, ok)
	assert.NotEqual(t, orig.ID, dup.ID)
	assert.Equal(t, orig.Content, dup.Content)
	assert.Equal(t, orig.X+5, dup.X)
	assert.Equal(t, orig.Y+5, dup.Y)
	assert.Equal(t, dup.ID, e.SelectedID())

	_, ok = e.DuplicateElement("missing")
	assert.False(t, ok)
}

func TestMoveLayer(t *testing.T) {
	e := New(newFakeStore())
	a := e.AddElement(ElementText, "a")
	b := e.AddElement(ElementText, "b")
	c := e.AddElement(ElementText, "c")

	// Moving to top places the element last: it renders frontmost.
	e.MoveLayer(a.ID, LayerTop)
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, elementIDs(e.Document()))

	// Moving to bottom places it first.
	e.MoveLayer(c.ID, LayerBottom)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, elementIDs(e.Document()))

	e.MoveLayer(b.ID, LayerUp)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, elementIDs(e.Document()))

	e.MoveLayer(a.ID, LayerDown)
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, elementIDs(e.Document()))

	// At the boundary a swap has nowhere to go.
	e.MoveLayer(a.ID, LayerDown)
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, elementIDs(e.Document()))
}

func TestBackgroundMutuallyExclusive(t *testing.T) {
	e := New(newFakeStore())

	e.SetBackgroundImage("https://example.com/bg.png")
	doc := e.Document()
	require.NotNil(t, doc.BackgroundImage)
	assert.Nil(t, doc.Background)

	e.SetBackground("#ffffff")
	doc = e.Document()
	require.NotNil(t, doc.Background)
	assert.Equal(t, "#ffffff", *doc.Background)
	assert.Nil(t, doc.BackgroundImage)
}

func TestUndoRedoInverse(t *testing.T) {
	e := New(newFakeStore())

	e.AddElement(ElementText, "one")
	e.AddElement(ElementText, "two")
	e.SetBackground("#000000")
	want := e.Document()

	// Undo N edits, then redo N times: the document before any undo
	// comes back, as long as no edit happened in between.
	const n = 3
	for i := 0; i < n; i++ {
		require.True(t, e.Undo())
	}
	assert.Empty(t, e.Document().Elements)

	for i := 0; i < n; i++ {
		require.True(t, e.Redo())
	}
	assert.Equal(t, want, e.Document())

	assert.False(t, e.Redo())
}

func TestEditAfterUndoDiscardsRedo(t *testing.T) {
	e := New(newFakeStore())

	// History [A, B, C]: blank, one element, two elements.
	e.AddElement(ElementText, "b")
	e.AddElement(ElementText, "c")

	require.True(t, e.Undo()) // back to B
	require.True(t, e.CanRedo())

	e.AddElement(ElementText, "d") // D replaces the redoable future
	assert.False(t, e.CanRedo())

	contents := []string{}
	for _, el := range e.Document().Elements {
		contents = append(contents, el.Content)
	}
	assert.Equal(t, []string{"b", "d"}, contents)

	// Undo twice walks D -> B -> A; a third step is unavailable.
	require.True(t, e.Undo())
	require.True(t, e.Undo())
	assert.False(t, e.Undo())
}

func TestHistoryDepthBound(t *testing.T) {
	e := New(newFakeStore(), WithHistoryDepth(3))

	for i := 0; i < 10; i++ {
		e.SetBackground(fmt.Sprintf("#%06d", i))
	}

	// Only two undo steps remain within the bound of three snapshots.
	require.True(t, e.Undo())
	require.True(t, e.Undo())
	assert.False(t, e.CanUndo())
	assert.Equal(t, "#000007", *e.Document().Background)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newFakeStore()
	e := New(store)

	e.AddElement(ElementText, "hello")
	e.AddElement(ElementImage, "https://example.com/cat.png")
	e.SetBackground("#fde68a")
	want := e.Document()

	id, err := e.Save(context.Background(), "Anniversary")
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.False(t, e.Dirty())
	assert.Equal(t, id, e.DesignID())
	assert.Equal(t, "Anniversary", store.titles[id])

	other := New(store)
	require.NoError(t, other.Load(context.Background(), id))
	assert.Equal(t, want, other.Document())
	assert.False(t, other.Dirty())
	assert.False(t, other.CanUndo())
	assert.False(t, other.CanRedo())
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	store := newFakeStore()
	e := New(store)

	e.AddElement(ElementText, "v1")
	first, err := e.Save(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Untitled Card", store.titles[first])

	e.AddElement(ElementText, "v2")
	second, err := e.Save(context.Background(), "Card")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, store.docs, 1)
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	store := newFakeStore()
	e := New(store)
	e.AddElement(ElementText, "hello")
	before := e.Document()

	store.failAll = true
	_, err := e.Save(context.Background(), "Card")
	require.Error(t, err)
	assert.True(t, e.Dirty())
	assert.Empty(t, e.DesignID())
	assert.Equal(t, before, e.Document())

	// The caller can retry once the store recovers.
	store.failAll = false
	_, err = e.Save(context.Background(), "Card")
	require.NoError(t, err)
	assert.False(t, e.Dirty())
}

func TestLoadResetsHistory(t *testing.T) {
	store := newFakeStore()
	e := New(store)
	e.AddElement(ElementText, "persisted")
	id, err := e.Save(context.Background(), "Card")
	require.NoError(t, err)

	e.AddElement(ElementText, "scratch")
	require.NoError(t, e.Load(context.Background(), id))

	assert.Len(t, e.Document().Elements, 1)
	assert.False(t, e.CanUndo())
	assert.Empty(t, e.SelectedID())
}

func TestReset(t *testing.T) {
	store := newFakeStore()
	e := New(store)
	e.AddElement(ElementText, "hello")
	_, err := e.Save(context.Background(), "Card")
	require.NoError(t, err)

	e.Reset()
	assert.Empty(t, e.DesignID())
	assert.Empty(t, e.Document().Elements)
	assert.False(t, e.Dirty())
	require.NotNil(t, e.Document().Background)
	assert.Equal(t, "#fff1f2", *e.Document().Background)
}
