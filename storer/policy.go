package storer

// ViolatesLanguagePolicy reports whether content carries CJK ideographs
// (U+3400–U+9FBF) or Kana (U+3040–U+30FF).
func ViolatesLanguagePolicy(content string) bool {
	for _, r := range content {
		if (r >= 0x3400 && r <= 0x9FBF) || (r >= 0x3040 && r <= 0x30FF) {
			return true
		}
	}
	return false
}

// ExcludeViolations returns the compliant records and the ids that were dropped.
func ExcludeViolations(records []Record) ([]Record, []string) {
	kept := make([]Record, 0, len(records))
	var dropped []string

	for _, rec := range records {
		if ViolatesLanguagePolicy(rec.Content) || ViolatesLanguagePolicy(rec.Metadata.Name) {
			dropped = append(dropped, rec.Id)
			continue
		}
		kept = append(kept, rec)
	}

	return kept, dropped
}
