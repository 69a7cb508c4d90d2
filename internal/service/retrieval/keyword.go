package retrieval

import (
	"strings"

	"github.com/w-h-a/bookflow/nlu"
	"github.com/w-h-a/bookflow/storer"
)

var stopwords = map[string]struct{}{
	"o": {}, "va": {}, "la": {}, "co": {}, "gi": {}, "cua": {}, "cho": {}, "nao": {},
	"the": {}, "khong": {}, "nhung": {}, "cac": {}, "mot": {}, "toi": {}, "ban": {},
	"di": {}, "den": {}, "tai": {}, "voi": {}, "nhat": {}, "hay": {}, "ve": {},
}

func keywordTerms(normalized string) []string {
	var terms []string
	seen := map[string]struct{}{}

	for _, tok := range nlu.Tokens(normalized) {
		if len(tok) < 2 {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}

	return terms
}

// keywordScore weighs name hits above content hits. A name quoted whole in
// the query dominates. Scores fall in (0, 1].
func keywordScore(query string, terms []string, rec storer.Record) float32 {
	name := nlu.Normalize(rec.Metadata.Name)
	content := " " + nlu.Normalize(rec.Content) + " "
	paddedName := " " + name + " "

	var score, total float32

	if len(name) > 0 && strings.Contains(" "+query+" ", paddedName) {
		score += 4
	}
	total += 4

	for _, term := range terms {
		total += 3
		needle := " " + term + " "
		if strings.Contains(paddedName, needle) {
			score += 2
		}
		if strings.Contains(content, needle) {
			score++
		}
	}

	if total == 0 || score == 0 {
		return 0
	}

	return score / total
}
