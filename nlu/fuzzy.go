package nlu

import "github.com/agnivade/levenshtein"

// editDistance is the rune edit distance between two normalized strings.
func editDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// fuzzyThreshold is the largest edit distance accepted against an alias.
func fuzzyThreshold(alias string) int {
	n := len(alias)
	if n < minFuzzyLen {
		return 0
	}
	return min(2, n/5)
}
