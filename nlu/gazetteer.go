package nlu

import (
	"sort"
	"strings"
)

const (
	minFuzzyLen  = 5
	maxFuzzySpan = 4
)

type Kind string

const (
	KindProvince Kind = "province"
	KindPlace    Kind = "place"
	KindDish     Kind = "dish"
)

// Entry is a known province, place or dish. Province is the canonical
// province the entry belongs to; Station names its weather station.
type Entry struct {
	Name     string
	Kind     Kind
	Province string
	Station  string
	Aliases  []string
}

type Match struct {
	Entry    Entry
	Alias    string
	Start    int
	End      int
	Distance int
}

func (m Match) Fuzzy() bool {
	return m.Distance > 0
}

type alias struct {
	text   string
	tokens []string
	joined string
	entry  int
}

// Gazetteer resolves names in normalized token streams. It is immutable
// once built and safe for concurrent use.
type Gazetteer struct {
	entries []Entry
	aliases []alias
}

// Find resolves every non-overlapping entry mention in tokens. Matches are
// ordered by position. used marks tokens already claimed and is updated.
func (g *Gazetteer) Find(tokens []string, used []bool) []Match {
	var matches []Match

	// exact phrases, longest alias first
	for _, a := range g.aliases {
		n := len(a.tokens)
		for i := 0; i+n <= len(tokens); i++ {
			if !free(used, i, i+n) || !equalTokens(tokens[i:i+n], a.tokens) {
				continue
			}
			matches = append(matches, Match{Entry: g.entries[a.entry], Alias: a.text, Start: i, End: i + n})
			claim(used, i, i+n)
		}
	}

	// multi-word aliases typed as one token, e.g. "danang"
	for i, tok := range tokens {
		if used[i] {
			continue
		}
		for _, a := range g.aliases {
			if len(a.tokens) > 1 && a.joined == tok {
				matches = append(matches, Match{Entry: g.entries[a.entry], Alias: a.text, Start: i, End: i + 1})
				claim(used, i, i+1)
				break
			}
		}
	}

	// typos and transliterations
	for n := maxFuzzySpan; n >= 1; n-- {
		for i := 0; i+n <= len(tokens); i++ {
			if !free(used, i, i+n) || !fuzzyCandidate(tokens[i:i+n]) {
				continue
			}
			window := strings.Join(tokens[i:i+n], "")
			if len(window) < minFuzzyLen {
				continue
			}
			if m, ok := g.closest(window); ok {
				m.Start, m.End = i, i+n
				matches = append(matches, m)
				claim(used, i, i+n)
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})

	return matches
}

func (g *Gazetteer) closest(window string) (Match, bool) {
	best := Match{Distance: -1}

	for _, a := range g.aliases {
		limit := fuzzyThreshold(a.joined)
		if limit == 0 || a.joined[0] != window[0] {
			continue
		}
		if diff := len(a.joined) - len(window); diff > limit || -diff > limit {
			continue
		}

		d := editDistance(window, a.joined)
		if d == 0 || d > limit {
			continue
		}

		if best.Distance == -1 || d < best.Distance {
			best = Match{Entry: g.entries[a.entry], Alias: a.text, Distance: d}
		}
	}

	return best, best.Distance > 0
}

// Lookup returns the entry whose name or alias equals name after normalization.
func (g *Gazetteer) Lookup(name string) (Entry, bool) {
	n := Normalize(name)
	for _, a := range g.aliases {
		if a.text == n {
			return g.entries[a.entry], true
		}
	}
	return Entry{}, false
}

// Province returns the primary entry for a canonical province name.
func (g *Gazetteer) Province(name string) (Entry, bool) {
	for _, e := range g.entries {
		if e.Kind == KindProvince && e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func (g *Gazetteer) Entries() []Entry {
	return append([]Entry(nil), g.entries...)
}

// fuzzyCandidate rejects windows holding numbers or one-letter words,
// which are never part of a name.
func fuzzyCandidate(tokens []string) bool {
	for _, tok := range tokens {
		if len(tok) < 2 {
			return false
		}
		for _, r := range tok {
			if r >= '0' && r <= '9' {
				return false
			}
		}
	}
	return true
}

func free(used []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if used[i] {
			return false
		}
	}
	return true
}

func claim(used []bool, start, end int) {
	for i := start; i < end; i++ {
		used[i] = true
	}
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DefaultEntries is the built-in gazetteer: 63 provinces, tourist cities,
// and well-known places and dishes.
func DefaultEntries() []Entry {
	entries := provinceEntries()
	entries = append(entries, placeEntries()...)
	entries = append(entries, dishEntries()...)
	return entries
}

// NewGazetteer indexes entries. Earlier entries win ties between aliases
// of the same length.
func NewGazetteer(entries ...Entry) *Gazetteer {
	g := &Gazetteer{
		entries: entries,
	}

	seen := map[string]struct{}{}

	for idx, e := range entries {
		names := append([]string{e.Name}, e.Aliases...)
		for _, raw := range names {
			text := Normalize(raw)
			if len(text) == 0 {
				continue
			}
			key := text + "|" + e.Name
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			toks := Tokens(text)
			g.aliases = append(g.aliases, alias{
				text:   text,
				tokens: toks,
				joined: strings.Join(toks, ""),
				entry:  idx,
			})
		}
	}

	sort.SliceStable(g.aliases, func(i, j int) bool {
		a, b := g.aliases[i], g.aliases[j]
		if len(a.tokens) != len(b.tokens) {
			return len(a.tokens) > len(b.tokens)
		}
		if len(a.text) != len(b.text) {
			return len(a.text) > len(b.text)
		}
		return a.entry < b.entry
	})

	return g
}

// ProvinceAliases returns every spelling known for a canonical province,
// including its tourist cities.
func (g *Gazetteer) ProvinceAliases(name string) []string {
	out := []string{name}
	seen := map[string]struct{}{name: {}}

	for _, e := range g.entries {
		if e.Kind != KindProvince || e.Province != name {
			continue
		}
		for _, a := range e.Aliases {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}

	return out
}

// Extend returns a gazetteer that also knows entries. Names that already
// resolve and entries whose province is unknown are skipped.
func (g *Gazetteer) Extend(entries ...Entry) *Gazetteer {
	all := g.Entries()

	for _, e := range entries {
		if len(Normalize(e.Name)) < 3 {
			continue
		}
		if _, ok := g.Lookup(e.Name); ok {
			continue
		}
		p, ok := g.Province(e.Province)
		if !ok {
			continue
		}
		if len(e.Station) == 0 {
			e.Station = p.Station
		}
		all = append(all, e)
	}

	return NewGazetteer(all...)
}
