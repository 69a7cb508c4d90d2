package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

type State string

const (
	StateReceived        State = "received"
	StateClassified      State = "classified"
	StateStructuredQuery State = "structured_query"
	StateDocumentSearch  State = "document_search"
	StateComposed        State = "composed"
	StateContextUpdated  State = "context_updated"
	StateResponded       State = "responded"
	StateFailed          State = "failed"
)

// turn tracks one message through the states.
type turn struct {
	sessionId string
	message   string
	state     State
	trail     []State
	started   time.Time
}

func (t *turn) advance(ctx context.Context, next State) {
	t.state = next
	t.trail = append(t.trail, next)
	slog.DebugContext(ctx, "turn advanced", "session_id", t.sessionId, "state", next)

	if next == StateResponded || next == StateFailed {
		slog.DebugContext(ctx, "turn finished", "session_id", t.sessionId, "trail", t.path())
	}
}

// path renders the visited states, e.g. "received>classified>responded".
func (t *turn) path() string {
	names := make([]string, len(t.trail))
	for i, s := range t.trail {
		names[i] = string(s)
	}
	return strings.Join(names, ">")
}

func newTurn(sessionId, message string, now time.Time) *turn {
	return &turn{
		sessionId: sessionId,
		message:   message,
		state:     StateReceived,
		trail:     []State{StateReceived},
		started:   now,
	}
}
