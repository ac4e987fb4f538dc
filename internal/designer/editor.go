// Package designer implements the in-memory card editing state machine:
// a document of background plus positioned elements, edited through a
// linear undo history.
package designer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const defaultHistoryDepth = 50

// Store persists card documents. The id returned by Create is reused for
// subsequent updates of the same editing session.
type Store interface {
	Get(ctx context.Context, id string) (Document, error)
	Create(ctx context.Context, title string, doc Document) (string, error)
	Update(ctx context.Context, id, title string, doc Document) error
}

// LayerDirection tells MoveLayer where to move an element
type LayerDirection string

const (
	LayerUp     LayerDirection = "up"
	LayerDown   LayerDirection = "down"
	LayerTop    LayerDirection = "top"
	LayerBottom LayerDirection = "bottom"
)

// ElementPatch carries partial element updates. Nil fields are left
// untouched; Style keys are merged into the existing style map.
type ElementPatch struct {
	Content *string
	X       *float64
	Y       *float64
	Style   map[string]any
}

// Editor owns one editing session. It is not safe for concurrent use;
// UI interactions are processed one at a time.
type Editor struct {
	store        Store
	doc          Document
	designID     string
	history      []Document
	cursor       int
	selectedID   string
	dirty        bool
	saving       bool
	historyDepth int
}

// Option configures an Editor
type Option func(*Editor)

// WithHistoryDepth bounds the undo log. Once full, the oldest snapshot
// is evicted on each new edit.
func WithHistoryDepth(n int) Option {
	return func(e *Editor) {
		if n > 1 {
			e.historyDepth = n
		}
	}
}

// New creates an editor holding a fresh blank card
func New(store Store, opts ...Option) *Editor {
	e := &Editor{
		store:        store,
		historyDepth: defaultHistoryDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resetTo(blankDocument())
	return e
}

func blankDocument() Document {
	bg := "#fff1f2"
	return Document{Background: &bg, Elements: []Element{}}
}

func (e *Editor) resetTo(doc Document) {
	e.doc = doc.clone()
	e.history = []Document{doc.clone()}
	e.cursor = 0
	e.selectedID = ""
	e.dirty = false
}

// push records the current document as a new history entry, discarding
// any redoable future first.
func (e *Editor) push() {
	e.history = append(e.history[:e.cursor+1], e.doc.clone())
	e.cursor++
	if len(e.history) > e.historyDepth {
		e.history = e.history[1:]
		e.cursor--
	}
	e.dirty = true
}

// Document returns a copy of the current document
func (e *Editor) Document() Document {
	return e.doc.clone()
}

// DesignID returns the persisted row id, empty until the first save
func (e *Editor) DesignID() string { return e.designID }

// SelectedID returns the id of the selected element, empty for none
func (e *Editor) SelectedID() string { return e.selectedID }

// Select marks an element as selected. Selecting an unknown id clears
// the selection.
func (e *Editor) Select(id string) {
	if e.indexOf(id) == -1 {
		e.selectedID = ""
		return
	}
	e.selectedID = id
}

// Dirty reports whether there are unsaved edits
func (e *Editor) Dirty() bool { return e.dirty }

// Saving reports whether a Save call is in flight
func (e *Editor) Saving() bool { return e.saving }

// CanUndo reports whether an undo step is available
func (e *Editor) CanUndo() bool { return e.cursor > 0 }

// CanRedo reports whether a redo step is available
func (e *Editor) CanRedo() bool { return e.cursor < len(e.history)-1 }

func (e *Editor) indexOf(id string) int {
	for i, el := range e.doc.Elements {
		if el.ID == id {
			return i
		}
	}
	return -1
}

// AddElement appends a new element at the canvas center with
// type-specific default styling and selects it.
func (e *Editor) AddElement(typ ElementType, content string) Element {
	el := Element{
		ID:   "el-" + uuid.New().String(),
		Type: typ,
		X:    50,
		Y:    50,
	}
	switch typ {
	case ElementText:
		el.Content = content
		if el.Content == "" {
			el.Content = "New Text"
		}
		el.Style = defaultTextStyle()
	default:
		el.Content = content
		el.Style = defaultImageStyle()
	}

	e.doc.Elements = append(e.doc.Elements, el)
	e.push()
	e.selectedID = el.ID
	return el.clone()
}

// UpdateElement merges a patch into the element with the given id.
// Unknown ids are a no-op and do not touch history.
func (e *Editor) UpdateElement(id string, patch ElementPatch) {
	i := e.indexOf(id)
	if i == -1 {
		return
	}

	el := &e.doc.Elements[i]
	if patch.Content != nil {
		el.Content = *patch.Content
	}
	if patch.X != nil {
		el.X = *patch.X
	}
	if patch.Y != nil {
		el.Y = *patch.Y
	}
	for k, v := range patch.Style {
		el.Style[k] = v
	}
	e.push()
}

// DeleteElement removes the element with the given id, clearing the
// selection if it pointed at the removed element.
func (e *Editor) DeleteElement(id string) {
	i := e.indexOf(id)
	if i == -1 {
		return
	}

	e.doc.Elements = append(e.doc.Elements[:i], e.doc.Elements[i+1:]...)
	e.push()
	if e.selectedID == id {
		e.selectedID = ""
	}
}

// DuplicateElement clones an element with a fresh id and a small
// positional offset, and selects the clone.
func (e *Editor) DuplicateElement(id string) (Element, bool) {
	i := e.indexOf(id)
	if i == -1 {
		return Element{}, false
	}

	dup := e.doc.Elements[i].clone()
	dup.ID = "el-" + uuid.New().String()
	dup.X += 5
	dup.Y += 5

	e.doc.Elements = append(e.doc.Elements, dup)
	e.push()
	e.selectedID = dup.ID
	return dup.clone(), true
}

// MoveLayer changes an element's position in the z-order. Array order is
// the sole stacking signal: the last element renders frontmost.
func (e *Editor) MoveLayer(id string, dir LayerDirection) {
	i := e.indexOf(id)
	if i == -1 {
		return
	}

	els := e.doc.Elements
	switch dir {
	case LayerUp:
		if i < len(els)-1 {
			els[i], els[i+1] = els[i+1], els[i]
		}
	case LayerDown:
		if i > 0 {
			els[i], els[i-1] = els[i-1], els[i]
		}
	case LayerTop:
		el := els[i]
		els = append(els[:i], els[i+1:]...)
		els = append(els, el)
		e.doc.Elements = els
	case LayerBottom:
		el := els[i]
		els = append(els[:i], els[i+1:]...)
		e.doc.Elements = append([]Element{el}, els...)
	}
	e.push()
}

// SetBackground sets a background color and clears any background image
func (e *Editor) SetBackground(color string) {
	e.doc.Background = &color
	e.doc.BackgroundImage = nil
	e.push()
}

// SetBackgroundImage sets a background image and clears the color
func (e *Editor) SetBackgroundImage(url string) {
	e.doc.BackgroundImage = &url
	e.doc.Background = nil
	e.push()
}

// Undo steps the history cursor back one snapshot. It does not create a
// new history entry.
func (e *Editor) Undo() bool {
	if !e.CanUndo() {
		return false
	}
	e.cursor--
	e.doc = e.history[e.cursor].clone()
	e.dirty = true
	return true
}

// Redo steps the history cursor forward one snapshot
func (e *Editor) Redo() bool {
	if !e.CanRedo() {
		return false
	}
	e.cursor++
	e.doc = e.history[e.cursor].clone()
	e.dirty = true
	return true
}

// Load replaces the session with a persisted design. History collapses
// to a single entry at the loaded document.
func (e *Editor) Load(ctx context.Context, id string) error {
	doc, err := e.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load design: %w", err)
	}
	e.resetTo(doc)
	e.designID = id
	return nil
}

// Save persists the current document, creating a row on first save and
// updating it afterwards. On failure the in-memory state is untouched so
// the caller can retry.
func (e *Editor) Save(ctx context.Context, title string) (string, error) {
	if title == "" {
		title = "Untitled Card"
	}

	e.saving = true
	defer func() { e.saving = false }()

	if e.designID == "" {
		id, err := e.store.Create(ctx, title, e.doc.clone())
		if err != nil {
			return "", fmt.Errorf("failed to save design: %w", err)
		}
		e.designID = id
		e.dirty = false
		return id, nil
	}

	if err := e.store.Update(ctx, e.designID, title, e.doc.clone()); err != nil {
		return "", fmt.Errorf("failed to save design: %w", err)
	}
	e.dirty = false
	return e.designID, nil
}

// Reset discards the session and starts a fresh blank card
func (e *Editor) Reset() {
	e.resetTo(blankDocument())
	e.designID = ""
}
