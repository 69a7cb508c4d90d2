package storer

import "math"

func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Diversify picks limit records by maximal marginal relevance. Records
// without embeddings are penalized by name collisions instead.
func Diversify(records []Record, limit int, relevance float64) []Record {
	if len(records) <= limit {
		return records
	}

	if relevance < 0 {
		relevance = 0
	} else if relevance > 1 {
		relevance = 1
	}

	selected := make([]Record, 0, limit)
	remaining := append([]Record(nil), records...)

	for len(selected) < limit && len(remaining) > 0 {
		bestIdx := -1
		best := math.Inf(-1)

		for i, cand := range remaining {
			maxSim := 0.0

			for _, sel := range selected {
				if sim := similarity(cand, sel); sim > maxSim {
					maxSim = sim
				}
			}

			current := (relevance * float64(cand.Score)) - ((1 - relevance) * maxSim)

			if current > best {
				best = current
				bestIdx = i
			}
		}

		if bestIdx == -1 {
			break
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

func similarity(a, b Record) float64 {
	if len(a.Embedding) > 0 && len(b.Embedding) > 0 {
		return CosineSimilarity(a.Embedding, b.Embedding)
	}
	if len(a.Metadata.Name) > 0 && a.Metadata.Name == b.Metadata.Name {
		return 1
	}
	return 0
}
