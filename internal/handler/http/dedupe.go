package http

import (
	"time"

	"github.com/bluele/gcache"
	"github.com/w-h-a/bookflow/internal/service/assistant"
	"github.com/w-h-a/bookflow/nlu"
)

const (
	dedupeWindow  = 2 * time.Second
	dedupeEntries = 500
	dedupeRunes   = 100
)

// dedupe remembers replies to identical requests for a short window.
type dedupe struct {
	cache gcache.Cache
}

func (d *dedupe) get(user, session, message string) (assistant.Reply, bool) {
	v, err := d.cache.Get(dedupeKey(user, session, message))
	if err != nil {
		return assistant.Reply{}, false
	}
	reply, ok := v.(assistant.Reply)
	return reply, ok
}

func (d *dedupe) put(user, session, message string, reply assistant.Reply) {
	_ = d.cache.Set(dedupeKey(user, session, message), reply)
}

func dedupeKey(user, session, message string) string {
	normalized := []rune(nlu.Normalize(message))
	if len(normalized) > dedupeRunes {
		normalized = normalized[:dedupeRunes]
	}
	return user + "|" + session + "|" + string(normalized)
}

func newDedupe(clock gcache.Clock) *dedupe {
	b := gcache.New(dedupeEntries).LRU().Expiration(dedupeWindow)
	if clock != nil {
		b = b.Clock(clock)
	}
	return &dedupe{cache: b.Build()}
}
