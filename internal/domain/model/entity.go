package model

import "time"

// Entity is the identity record shared by every object the HomeWizard tracks.
type Entity struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Favorite   bool      `json:"favorite"`
	LastUpdate time.Time `json:"last_update"`
}

func NewEntity(id int, name string, favorite bool, now time.Time) Entity {
	return Entity{ID: id, Name: name, Favorite: favorite, LastUpdate: now}
}

// Base gives generic code access to the embedded record of a concrete entity.
func (e *Entity) Base() *Entity {
	return e
}

// Touch records a status change. LastUpdate never moves backwards.
func (e *Entity) Touch(now time.Time) {
	if now.After(e.LastUpdate) {
		e.LastUpdate = now
	}
}
