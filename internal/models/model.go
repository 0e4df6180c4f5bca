// Package models defines the domain model of the household ledger: recurring
// bill and income templates, their per-month instances and occurrences,
// insurance claims with their submission chains, and the month document that
// is persisted as one JSON blob per calendar month.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultModel is the base model for all identifiable resources.
type DefaultModel struct {
	ID uuid.UUID `json:"id" example:"65392deb-5e92-4268-b114-297faad6cdce"` // UUID for the resource
	Timestamps
}

// Timestamps are kept separate from DefaultModel so that resources living
// inside a month document (occurrences, submissions) can carry them without
// an independent identity block.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" example:"2022-04-02T19:28:44.491514Z"` // Time the resource was created
	UpdatedAt time.Time `json:"updatedAt" example:"2022-04-17T20:14:01.048145Z"` // Last time the resource was updated
}

// Init sets a fresh ID and creation timestamps.
func (m *DefaultModel) Init() {
	m.ID = uuid.New()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
}

// Touch updates the modification timestamp.
func (t *Timestamps) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// ResourceID returns the ID. It exists so that generic collection code can
// address any resource embedding DefaultModel.
func (m DefaultModel) ResourceID() uuid.UUID {
	return m.ID
}
