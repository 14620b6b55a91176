// Package models defines data structures used across the application.
// File: models/competition.go
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ----------------------- status -----------------------

// Competition lifecycle states.
const (
	StatusScheduled = "Scheduled"
	StatusRunning   = "Running"
	StatusFinished  = "Finished"
)

// Statuses lists the valid competition states in display order.
var Statuses = []string{StatusScheduled, StatusRunning, StatusFinished}

// ----------------------- competition model -----------------------

// Competition is one scheduled or played competition. Newly created
// competitions always start Scheduled.
type Competition struct {
	ID            string `json:"id"`
	League        string `json:"league"`
	ScheduledTime string `json:"scheduledTime"`
	EntryFee      string `json:"entryFee"` // currency-labelled, e.g. "$10"
	Players       int    `json:"players"`
	Status        string `json:"status"`
}

// CompetitionSearchFields are the fields free-text search matches on the
// competitions screen.
var CompetitionSearchFields = []string{"league", "entryFee", "status"}

// DecodeCompetition turns a raw competition document into a typed
// Competition with defaults applied. A negative player count is treated as
// zero rather than propagated.
func DecodeCompetition(d Doc) (Competition, error) {
	id := d.ID()
	if id == "" {
		return Competition{}, ErrMissingID
	}
	players := d.GetInt("players", 0)
	if players < 0 {
		players = 0
	}
	return Competition{
		ID:            id,
		League:        d.GetString("league", "Unknown league"),
		ScheduledTime: d.GetString("scheduledTime", ""),
		EntryFee:      d.GetString("entryFee", "$0"),
		Players:       players,
		Status:        d.GetString("status", StatusScheduled),
	}, nil
}

// Doc converts the competition back into its document form.
func (c Competition) Doc() Doc {
	return Doc{
		"id":            c.ID,
		"league":        c.League,
		"scheduledTime": c.ScheduledTime,
		"entryFee":      c.EntryFee,
		"players":       c.Players,
		"status":        c.Status,
	}
}

// CompetitionFields maps editable competition fields to their parsers.
var CompetitionFields = map[string]FieldParser{
	"league":        stringField,
	"scheduledTime": stringField,
	"entryFee":      stringField,
	"status":        enumField(Statuses...),
	"players": func(raw string) (interface{}, error) {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("players %q is not a whole number", raw)
		}
		if n < 0 {
			return nil, fmt.Errorf("players must be zero or more, got %d", n)
		}
		return n, nil
	},
}
