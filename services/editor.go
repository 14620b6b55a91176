// Package services: services/editor.go
// Inline Edit/Transaction Controller: drives the per-row edit lifecycle
// (start, field mutation, commit, cancel) and the two-step delete
// confirmation, coordinating remote store calls with the local cache and
// user-facing notifications.
//
// Mutations are remote-first, cache-second: the cache is never touched
// before the remote write has been confirmed, so a failed call leaves the
// local mirror exactly as it was and the row in a re-triable state.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go-footy-trivia/logger"
	"go-footy-trivia/models"
	"go-footy-trivia/notify"
	"go-footy-trivia/store"
)

// Row edit states.
const (
	StateViewing    = "Viewing"
	StateEditing    = "Editing"
	StateCommitting = "Committing"
)

// Row delete-confirmation states.
const (
	DeleteIdle           = "Idle"
	DeletePendingConfirm = "PendingConfirm"
	DeleteDeleting       = "Deleting"
)

// Local failures raised before any remote call is attempted.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoSuchRow    = errors.New("no such row")
	ErrRowBusy      = errors.New("row has an operation in flight")
	ErrNotEditing   = errors.New("row is not in edit state")
)

// EditorConfig describes one collection's console behaviour.
type EditorConfig struct {
	Collection   string                        // store collection name
	EntityLabel  string                        // human label for notifications ("user", ...)
	Fields       map[string]models.FieldParser // editable fields
	SearchFields []string                      // free-text search targets
}

// Editor owns the edit and delete state machines for one collection. The
// Edit Session drafts and delete confirmations never escape it.
type Editor struct {
	cfg      EditorConfig
	store    store.Store
	cache    *ResourceCache
	notifier notify.Notifier

	mu         sync.Mutex
	drafts     map[string]models.Doc // row id -> draft (Editing/Committing)
	committing map[string]bool       // row id -> remote write in flight
	deleting   map[string]string     // row id -> DeletePendingConfirm | DeleteDeleting
}

// NewEditor wires an editor over its collaborators.
func NewEditor(cfg EditorConfig, st store.Store, cache *ResourceCache, notifier notify.Notifier) *Editor {
	return &Editor{
		cfg:        cfg,
		store:      st,
		cache:      cache,
		notifier:   notifier,
		drafts:     make(map[string]models.Doc),
		committing: make(map[string]bool),
		deleting:   make(map[string]string),
	}
}

// Cache exposes the editor's local mirror (read-mostly; the admin shell uses
// it to render counts and derived views).
func (e *Editor) Cache() *ResourceCache { return e.cache }

// Collection returns the remote collection this editor manages.
func (e *Editor) Collection() string { return e.cfg.Collection }

// ----------------------- load & view -----------------------

// Load fetches the whole collection from the remote store and replaces the
// cache. On failure the cache is left untouched and an error toast is
// emitted; the caller decides whether to render stale data.
func (e *Editor) Load(ctx context.Context) error {
	docs, err := e.store.FetchAll(ctx, e.cfg.Collection)
	if err != nil {
		logger.Error.Printf("editor[%s]: load failed: %v", e.cfg.Collection, err)
		e.notifier.Error("", "Failed to load "+e.cfg.EntityLabel+"s")
		return err
	}
	e.cache.ReplaceAll(docs)
	return nil
}

// View derives the filtered, ordered view from the full cache.
func (e *Editor) View(query string, facets map[string]string) []models.Doc {
	return Filter(e.cache.Items(), query, e.cfg.SearchFields, facets)
}

// ----------------------- edit lifecycle -----------------------

// StartEdit moves a row from Viewing to Editing, seeding the draft as a
// shallow copy of the current entity.
func (e *Editor) StartEdit(id string) error {
	doc, ok := e.cache.Get(id)
	if !ok {
		return fmt.Errorf("%s %s: %w", e.cfg.EntityLabel, id, ErrNoSuchRow)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, editing := e.drafts[id]; editing {
		return fmt.Errorf("%s %s: %w", e.cfg.EntityLabel, id, ErrRowBusy)
	}
	if e.deleting[id] == DeleteDeleting {
		return fmt.Errorf("%s %s: %w", e.cfg.EntityLabel, id, ErrRowBusy)
	}
	e.drafts[id] = doc // cache.Get already cloned
	return nil
}

// SetField updates one named field on the row's draft. Unknown fields and
// values the field parser rejects (e.g. a malformed number) leave the draft
// unchanged and return ErrInvalidInput.
func (e *Editor) SetField(id, field, raw string) error {
	parser, known := e.cfg.Fields[field]
	if !known {
		return fmt.Errorf("field %q is not editable: %w", field, ErrInvalidInput)
	}
	value, err := parser(raw)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	draft, editing := e.drafts[id]
	if !editing {
		return fmt.Errorf("%s %s: %w", e.cfg.EntityLabel, id, ErrNotEditing)
	}
	if e.committing[id] {
		return fmt.Errorf("%s %s: %w", e.cfg.EntityLabel, id, ErrRowBusy)
	}
	draft[field] = value
	return nil
}

// Commit writes the draft to the remote store as a merge-write, then applies
// the same patch to the cache and resolves the loading toast. On remote
// failure the draft is preserved and the row stays Editing so the user can
// retry or cancel; no automatic retry is attempted.
func (e *Editor) Commit(ctx context.Context, id string) error {
	e.mu.Lock()
	draft, editing := e.drafts[id]
	if !editing {
		e.mu.Unlock()
		return fmt.Errorf("%s %s: %w", e.cfg.EntityLabel, id, ErrNotEditing)
	}
	if e.committing[id] {
		e.mu.Unlock()
		return fmt.Errorf("%s %s: %w", e.cfg.EntityLabel, id, ErrRowBusy)
	}
	e.committing[id] = true
	payload := draft.Clone()
	e.mu.Unlock()

	toast := e.notifier.Loading("Updating " + e.cfg.EntityLabel + "...")

	err := e.store.Upsert(ctx, e.cfg.Collection, id, payload)

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.committing, id)
	if err != nil {
		// stay in Editing with the draft intact
		logger.Error.Printf("editor[%s]: commit %s failed: %v", e.cfg.Collection, id, err)
		e.notifier.Error(toast, commitFailureMessage(e.cfg.EntityLabel, err))
		return err
	}

	e.cache.ApplyUpdate(id, payload)
	delete(e.drafts, id)
	e.notifier.Success(toast, capitalise(e.cfg.EntityLabel)+" updated successfully")
	return nil
}

// CancelEdit discards the draft with no remote call.
func (e *Editor) CancelEdit(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, editing := e.drafts[id]; !editing {
		return fmt.Errorf("%s %s: %w", e.cfg.EntityLabel, id, ErrNotEditing)
	}
	if e.committing[id] {
		return fmt.Errorf("%s %s: %w", e.cfg.EntityLabel, id, ErrRowBusy)
	}
	delete(e.drafts, id)
	return nil
}

// Draft returns a copy of the row's current draft, if it is being edited.
func (e *Editor) Draft(id string) (models.Doc, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	draft, ok := e.drafts[id]
	if !ok {
		return nil, false
	}
	return draft.Clone(), true
}

// EditState reports the row's edit state machine position.
func (e *Editor) EditState(id string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.committing[id] {
		return StateCommitting
	}
	if _, ok := e.drafts[id]; ok {
		return StateEditing
	}
	return StateViewing
}

// ----------------------- delete lifecycle -----------------------

// RequestDelete moves a row's delete machine from Idle to PendingConfirm.
func (e *Editor) RequestDelete(id string) error {
	if _, ok := e.cache.Get(id); !ok {
		return fmt.Errorf("%s %s: %w", e.cfg.EntityLabel, id, ErrNoSuchRow)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleting[id] != "" {
		return fmt.Errorf("%s %s: %w", e.cfg.EntityLabel, id, ErrRowBusy)
	}
	e.deleting[id] = DeletePendingConfirm
	return nil
}

// ConfirmDelete performs the remote delete and, on success, removes the row
// from the cache. On failure the machine returns to PendingConfirm (not
// Idle): the entity stays cached and the user must re-trigger the confirm.
func (e *Editor) ConfirmDelete(ctx context.Context, id string) error {
	e.mu.Lock()
	if e.deleting[id] != DeletePendingConfirm {
		e.mu.Unlock()
		return fmt.Errorf("%s %s not awaiting confirmation: %w", e.cfg.EntityLabel, id, ErrNoSuchRow)
	}
	e.deleting[id] = DeleteDeleting
	e.mu.Unlock()

	toast := e.notifier.Loading("Deleting " + e.cfg.EntityLabel + "...")

	err := e.store.Remove(ctx, e.cfg.Collection, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		logger.Error.Printf("editor[%s]: delete %s failed: %v", e.cfg.Collection, id, err)
		e.deleting[id] = DeletePendingConfirm
		e.notifier.Error(toast, "Failed to delete "+e.cfg.EntityLabel)
		return err
	}

	e.cache.ApplyRemove(id)
	delete(e.deleting, id)
	delete(e.drafts, id) // an open draft for a deleted row is meaningless
	e.notifier.Success(toast, capitalise(e.cfg.EntityLabel)+" deleted successfully")
	return nil
}

// CancelDelete returns the delete machine to Idle with no remote call.
func (e *Editor) CancelDelete(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleting[id] != DeletePendingConfirm {
		return fmt.Errorf("%s %s not awaiting confirmation: %w", e.cfg.EntityLabel, id, ErrNoSuchRow)
	}
	delete(e.deleting, id)
	return nil
}

// DeleteState reports the row's delete state machine position.
func (e *Editor) DeleteState(id string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s := e.deleting[id]; s != "" {
		return s
	}
	return DeleteIdle
}

// ----------------------- creation -----------------------

// AddRow inserts a locally assigned placeholder into the cache and opens it
// directly in Editing state: the optimistic create-then-edit pattern used by
// the question bank's "Add Question". No remote call happens until the row
// is committed.
func (e *Editor) AddRow(doc models.Doc) (string, error) {
	id := doc.ID()
	if id == "" {
		return "", fmt.Errorf("placeholder has no id: %w", ErrInvalidInput)
	}
	if _, exists := e.cache.Get(id); exists {
		return "", fmt.Errorf("%s %s already exists: %w", e.cfg.EntityLabel, id, ErrInvalidInput)
	}
	e.cache.ApplyInsert(doc)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.drafts[id] = doc.Clone()
	return id, nil
}

// Create writes a fully formed new entity remote-first and mirrors it into
// the cache on success. Used by the competitions screen, where a new entry
// is complete at creation time and always starts Scheduled.
func (e *Editor) Create(ctx context.Context, doc models.Doc) error {
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("new %s has no id: %w", e.cfg.EntityLabel, ErrInvalidInput)
	}

	toast := e.notifier.Loading("Creating " + e.cfg.EntityLabel + "...")
	if err := e.store.Upsert(ctx, e.cfg.Collection, id, doc); err != nil {
		logger.Error.Printf("editor[%s]: create %s failed: %v", e.cfg.Collection, id, err)
		e.notifier.Error(toast, "Failed to create "+e.cfg.EntityLabel)
		return err
	}
	e.cache.ApplyInsert(doc)
	e.notifier.Success(toast, capitalise(e.cfg.EntityLabel)+" created successfully")
	return nil
}

// ----------------------- helpers -----------------------

func commitFailureMessage(label string, err error) string {
	if errors.Is(err, store.ErrValidationRejected) {
		return "The store rejected the " + label + " update"
	}
	return "Failed to update " + label
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
