package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Context is the conversational scratch state of one session.
type Context struct {
	SessionId      string    `json:"session_id"`
	City           string    `json:"city,omitempty"`
	LastEntityName string    `json:"last_entity_name,omitempty"`
	LastEntityType string    `json:"last_entity_type,omitempty"`
	LastIntent     string    `json:"last_intent,omitempty"`
	TurnCount      int       `json:"turn_count"`
	Turns          []Turn    `json:"turns,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Turn struct {
	Message string    `json:"message"`
	Intent  string    `json:"intent"`
	Source  string    `json:"source"`
	Summary string    `json:"summary"`
	At      time.Time `json:"at"`
}

// AppendTurn adds a turn and keeps at most window of them.
func (c *Context) AppendTurn(turn Turn, window int) {
	c.Turns = append(c.Turns, turn)
	c.TurnCount++
	if window > 0 && len(c.Turns) > window {
		c.Turns = append([]Turn(nil), c.Turns[len(c.Turns)-window:]...)
	}
}

func (c Context) Clone() Context {
	c.Turns = append([]Turn(nil), c.Turns...)
	return c
}

// Store serializes read-modify-write per session id. Get never fails for an
// unknown id; it returns an empty Context carrying that id.
type Store interface {
	Get(ctx context.Context, id string) (Context, error)
	Update(ctx context.Context, id string, fn func(*Context) error) (Context, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
