// Package store abstracts the remote document store the console runs against.
// File: store/store.go
package store

import (
	"context"
	"errors"

	"go-footy-trivia/models"
)

// Collection names understood by the store.
const (
	CollectionUsers        = "users"
	CollectionQuestions    = "questions"
	CollectionCompetitions = "competitions"
)

// ----------------------- error kinds -----------------------

// Typed failures. Callers match with errors.Is; everything that is neither a
// validation rejection nor a missing record is treated as the store being
// unavailable and is safe to retry.
var (
	ErrRemoteUnavailable  = errors.New("remote store unavailable")
	ErrTimedOut           = errors.New("remote call timed out")
	ErrValidationRejected = errors.New("remote store rejected the write")
	ErrNotFound           = errors.New("record not found")
)

// Retriable reports whether the failure leaves the operation in a state the
// user can simply re-trigger. Timeouts feed the same recovery path as plain
// unavailability.
func Retriable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable) || errors.Is(err, ErrTimedOut)
}

// ----------------------- store contract -----------------------

// Store is a pure pass-through to one remote document store. It performs no
// local caching; every call hits the remote side.
//
// Upsert is a merge-write: only the fields present in the payload are
// touched, fields already on the remote record are preserved. FetchAll
// returns documents in the store's native order, which is not guaranteed
// stable across calls.
type Store interface {
	FetchAll(ctx context.Context, collection string) ([]models.Doc, error)
	Get(ctx context.Context, collection, id string) (models.Doc, error)
	Upsert(ctx context.Context, collection, id string, fields models.Doc) error
	Remove(ctx context.Context, collection, id string) error
}
