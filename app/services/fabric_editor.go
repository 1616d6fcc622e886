package services

import (
	"context"
	"errors"
	"io"

	"github.com/telascatalogo/telas/app/models"
)

// ErrNotEditing is returned by Submit when no draft is open.
var ErrNotEditing = errors.New("editor: no fabric is being edited")

// EditorState is where the admin workflow currently is.
type EditorState int

const (
	Idle EditorState = iota
	EditingNew
	EditingExisting
)

func (s EditorState) String() string {
	switch s {
	case EditingNew:
		return "editing_new"
	case EditingExisting:
		return "editing_existing"
	default:
		return "idle"
	}
}

// FabricStore is the write side of the catalog store.
type FabricStore interface {
	Insert(ctx context.Context, in models.FabricFields) (models.Fabric, error)
	Update(ctx context.Context, id uint, in models.FabricFields) (models.Fabric, error)
	Delete(ctx context.Context, id uint) error
}

// ImageStore saves an image and returns the URL it is served from.
type ImageStore interface {
	Store(ctx context.Context, filename string, r io.Reader) (string, error)
}

// FabricEditor stages one create or edit at a time and commits it to the
// store. A failed submit keeps the draft so the admin can fix and retry.
// It is not safe for concurrent use.
type FabricEditor struct {
	store   FabricStore
	images  ImageStore
	state   EditorState
	id      uint
	draft   models.FabricFields
	lastErr error
}

func NewFabricEditor(store FabricStore, images ImageStore) *FabricEditor {
	return &FabricEditor{store: store, images: images}
}

func (e *FabricEditor) State() EditorState { return e.state }

// EditingID is the fabric being edited, or 0.
func (e *FabricEditor) EditingID() uint { return e.id }

// LastError is the error of the most recent failed operation, cleared on
// the next state change.
func (e *FabricEditor) LastError() error { return e.lastErr }

// Create opens an empty draft with the form defaults.
func (e *FabricEditor) Create() {
	e.state, e.id = EditingNew, 0
	e.draft = models.NewFabricFields()
	e.lastErr = nil
}

// Edit opens a draft holding f's current fields.
func (e *FabricEditor) Edit(f models.Fabric) {
	e.state, e.id = EditingExisting, f.ID
	e.draft = f.Fields()
	e.lastErr = nil
}

// Draft exposes the staged fields for modification. It is only meaningful
// while editing.
func (e *FabricEditor) Draft() *models.FabricFields { return &e.draft }

// AttachImage uploads r and points the draft at the result. On failure the
// draft keeps its previous image URL.
func (e *FabricEditor) AttachImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	url, err := e.images.Store(ctx, filename, r)
	if err != nil {
		e.lastErr = err
		return "", err
	}
	e.draft.ImageURL = url
	return url, nil
}

// Submit validates the draft and inserts or updates it. Only success returns
// the editor to Idle.
func (e *FabricEditor) Submit(ctx context.Context) (models.Fabric, error) {
	var (
		f   models.Fabric
		err error
	)
	switch e.state {
	case EditingNew:
		if err = e.draft.Validate(); err == nil {
			f, err = e.store.Insert(ctx, e.draft)
		}
	case EditingExisting:
		if err = e.draft.Validate(); err == nil {
			f, err = e.store.Update(ctx, e.id, e.draft)
		}
	default:
		err = ErrNotEditing
	}
	if err != nil {
		e.lastErr = err
		return models.Fabric{}, err
	}
	e.reset()
	return f, nil
}

// Cancel discards the draft.
func (e *FabricEditor) Cancel() { e.reset() }

// Delete removes a fabric. It works from any state and leaves the draft alone.
func (e *FabricEditor) Delete(ctx context.Context, id uint) error {
	if err := e.store.Delete(ctx, id); err != nil {
		e.lastErr = err
		return err
	}
	return nil
}

func (e *FabricEditor) reset() {
	e.state, e.id = Idle, 0
	e.draft = models.FabricFields{}
	e.lastErr = nil
}
