package classify

import (
	"math"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Rank produces the classification order the whole report exists to compute:
// denied BMs first, then earliest efetivação, then earliest birth date (the
// oldest claimant), with the BM itself as the final tie-break under Brazilian
// Portuguese collation. Records whose efetivação or birth date cannot be
// parsed sort as if infinitely late within their tier. The sort is stable, so
// duplicate BMs keep their input order.
//
// The input is not modified; the ranked order comes back as a new slice.
func Rank(rows []EnrichedRecord, loc *time.Location) []EnrichedRecord {
	ranked := make([]EnrichedRecord, len(rows))
	copy(ranked, rows)

	coll := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Indeferido != b.Indeferido {
			return a.Indeferido
		}
		if ta, tb := dateSortKey(a.Efetivacao, loc), dateSortKey(b.Efetivacao, loc); ta != tb {
			return ta < tb
		}
		if ta, tb := dateSortKey(a.DataNascimento, loc), dateSortKey(b.DataNascimento, loc); ta != tb {
			return ta < tb
		}
		return coll.CompareString(a.BM, b.BM) < 0
	})
	return ranked
}

// dateSortKey collapses a raw date to a comparable instant, with unparseable
// values pushed past every real date.
func dateSortKey(raw any, loc *time.Location) int64 {
	t, ok := ParseAnyDate(raw, loc)
	if !ok {
		return math.MaxInt64
	}
	return t.Unix()
}
