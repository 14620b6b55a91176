// Package models defines data structures used across the application.
// File: models/identity.go
package models

import (
	"errors"
	"fmt"
	"time"
)

// ----------------------- roles -----------------------

// Valid roles. A user holds exactly one role at any time.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Placeholder values applied when a remote user record is missing fields.
const (
	DefaultName  = "No name"
	DefaultEmail = "No email"
)

// ----------------------- identity model -----------------------

// Identity represents one registered user of the product. The ID is the
// document key in the users collection and is immutable once created.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"` // ISO-8601
}

// IdentitySearchFields are the fields the console's free-text search matches
// against for the users screen.
var IdentitySearchFields = []string{"name", "email", "role", "id"}

// ErrMissingID is returned by decoders when a remote record carries no key.
var ErrMissingID = errors.New("document has no id")

// DecodeIdentity turns a raw user document into a typed Identity, applying
// documented placeholders for missing fields. Only a missing id is an error;
// partially populated records are expected and tolerated.
func DecodeIdentity(d Doc) (Identity, error) {
	id := d.ID()
	if id == "" {
		return Identity{}, ErrMissingID
	}
	return Identity{
		ID:        id,
		Name:      d.GetString("name", DefaultName),
		Email:     d.GetString("email", DefaultEmail),
		Role:      d.GetString("role", RoleUser),
		CreatedAt: d.GetString("createdAt", time.Now().UTC().Format(time.RFC3339)),
	}, nil
}

// Doc converts the identity back into its document form.
func (i Identity) Doc() Doc {
	return Doc{
		"id":        i.ID,
		"name":      i.Name,
		"email":     i.Email,
		"role":      i.Role,
		"createdAt": i.CreatedAt,
	}
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// ----------------------- editable fields -----------------------

// FieldParser converts a raw form value into the typed value stored in an
// edit draft. Parsers reject invalid input so the draft field stays unchanged.
type FieldParser func(raw string) (interface{}, error)

func stringField(raw string) (interface{}, error) { return raw, nil }

func enumField(allowed ...string) FieldParser {
	return func(raw string) (interface{}, error) {
		for _, a := range allowed {
			if raw == a {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("value %q is not one of %v", raw, allowed)
	}
}

// IdentityFields maps editable user fields to their parsers. The id and
// createdAt fields are deliberately absent: the console never edits them.
var IdentityFields = map[string]FieldParser{
	"name":  stringField,
	"email": stringField,
	"role":  enumField(RoleUser, RoleAdmin),
}
