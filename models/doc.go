// Package models defines data structures used across the application.
// File: models/doc.go
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ----------------------- raw document -----------------------

// Doc is a raw document as returned by the remote store. Remote records are
// only partially populated in practice, so every typed view of a Doc goes
// through an explicit decode step that fills defaults instead of failing.
type Doc map[string]interface{}

// Clone returns a shallow copy of the document. Used to seed edit drafts so
// that draft mutations never leak into the cached copy.
func (d Doc) Clone() Doc {
	out := make(Doc, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ID returns the document key as a string. Numeric ids (question ids arrive
// as float64 after JSON decoding) are normalised to their decimal form.
func (d Doc) ID() string {
	return Stringify(d["id"])
}

// GetString returns the named field coerced to a string, or def when the
// field is absent or nil.
func (d Doc) GetString(key, def string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return def
	}
	s := Stringify(v)
	if s == "" {
		return def
	}
	return s
}

// GetFloat returns the named field as a float64, or def when absent or not
// numeric.
func (d Doc) GetFloat(key string, def float64) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// GetInt returns the named field as an int, or def when absent or not numeric.
func (d Doc) GetInt(key string, def int) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Stringify coerces an arbitrary field value to its string form. A nil value
// becomes the empty string; floats that hold whole numbers print without a
// decimal point so ids round-trip cleanly.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}
