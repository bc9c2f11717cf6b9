package domain

import "time"

// Base carries the attributes shared by every persisted entity.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newBase() Base {
	now := time.Now().UTC()
	return Base{CreatedAt: now, UpdatedAt: now}
}

func (b *Base) GetID() string {
	return b.ID
}

// SetID assigns the identifier. Stores call it once, on first insert.
func (b *Base) SetID(id string) {
	b.ID = id
}

// Touch refreshes UpdatedAt after a mutation.
func (b *Base) Touch() {
	now := time.Now().UTC()
	if now.Before(b.UpdatedAt) {
		now = b.UpdatedAt
	}
	b.UpdatedAt = now
}

func (b *Base) baseAttribute(name string) (any, bool) {
	if name == "id" {
		return b.ID, true
	}
	return nil, false
}
