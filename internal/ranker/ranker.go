// Package ranker scores a query embedding against the reference corpus and
// produces the ordered top-K identity list. The scan is exhaustive and O(N)
// per query; the corpus is static and small enough that this is the right
// trade, and it is the scaling ceiling of the service.
package ranker

import (
	"errors"
	"fmt"
	"sort"

	"github.com/visagelab/visage/internal/refstore"
)

// ErrDimensionMismatch marks a query whose dimensionality disagrees with the
// reference table.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Match is one ranked identity. Similarity is the raw dot product of the
// query with the identity's best-matching reference embedding.
type Match struct {
	IdentityId int64
	Similarity float64
	Metadata   refstore.IdentityRecord
}

// Rank scores query against every reference row. Rows scoring below
// threshold are dropped (a score exactly equal to threshold survives); the
// rest are grouped by identity, each identity represented by its maximum
// row score, ordered descending with ties kept in first-encounter order,
// and truncated to topK.
//
// Both sides are assumed unit-normalized, making the dot product the cosine
// similarity; the query is deliberately not re-normalized here.
func Rank(store refstore.Store, query []float32, threshold float64, topK int) ([]Match, error) {
	if store.Count() > 0 && len(query) != store.Dim() {
		return nil, fmt.Errorf("%w: query has dim %d, reference table has dim %d",
			ErrDimensionMismatch, len(query), store.Dim())
	}

	groupIndex := make(map[int64]int)
	var matches []Match
	for row := 0; row < store.Count(); row++ {
		score := dot(query, store.EmbeddingAt(row))
		if score < threshold {
			continue
		}
		id := store.IdentityAt(row)
		if at, seen := groupIndex[id]; seen {
			if score > matches[at].Similarity {
				matches[at].Similarity = score
			}
			continue
		}
		groupIndex[id] = len(matches)
		matches = append(matches, Match{IdentityId: id, Similarity: score})
	}

	// stable keeps first-encounter order for equal scores
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if topK >= 0 && len(matches) > topK {
		matches = matches[:topK]
	}

	for i := range matches {
		metadata, err := store.MetadataFor(matches[i].IdentityId)
		if err != nil {
			return nil, err
		}
		matches[i].Metadata = metadata
	}
	return matches, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
