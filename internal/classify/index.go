package classify

import "strings"

// DenialIndex maps a normalized BM to its authoritative denial record.
type DenialIndex map[string]DenialRecord

// BuildDenialIndex folds the roster into a single-valued mapping. When rows
// share a key the later row wins, matching the sheet's own ambiguity; callers
// get whatever the roster last said about a BM.
func BuildDenialIndex(rows []DenialRecord) DenialIndex {
	ix := make(DenialIndex, len(rows))
	for _, row := range rows {
		ix[NormalizeBM(row.BM)] = row
	}
	return ix
}

// Lookup returns the denial record for a BM, matching case-insensitively and
// ignoring surrounding whitespace.
func (ix DenialIndex) Lookup(bm string) (DenialRecord, bool) {
	rec, ok := ix[NormalizeBM(bm)]
	return rec, ok
}

// IsDenied reports whether the roster records an indeferimento for this BM.
// Only a literal "SIM" (any casing) counts as denied.
func (ix DenialIndex) IsDenied(bm string) bool {
	rec, ok := ix.Lookup(bm)
	return ok && strings.ToUpper(rec.Indeferimento) == "SIM"
}
