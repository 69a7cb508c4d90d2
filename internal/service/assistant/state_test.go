package assistant

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTurnLogsTrailWhenFinished(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.Background()
	tr := newTurn("s1", "Review Eo Gió", time.Now())

	tr.advance(ctx, StateClassified)
	tr.advance(ctx, StateDocumentSearch)
	assert.NotContains(t, buf.String(), "turn finished")

	tr.advance(ctx, StateComposed)
	tr.advance(ctx, StateContextUpdated)
	tr.advance(ctx, StateResponded)

	assert.Equal(t, StateResponded, tr.state)
	assert.Contains(t, buf.String(), "turn finished")
	assert.Contains(t, buf.String(), "trail=received>classified>document_search>composed>context_updated>responded")
}
