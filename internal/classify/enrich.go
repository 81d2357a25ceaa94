package classify

import "time"

// Enrich joins every primary record with the denial index, order preserving:
// one output per input, no drops, no duplicates. Records without a roster
// match come out with Indeferido false and absent derived fields.
func Enrich(primary []PrimaryRecord, ix DenialIndex, today time.Time, loc *time.Location) []EnrichedRecord {
	enriched := make([]EnrichedRecord, 0, len(primary))
	for _, row := range primary {
		rec := EnrichedRecord{PrimaryRecord: row}
		if info, ok := ix.Lookup(row.BM); ok {
			rec.Indeferido = ix.IsDenied(row.BM)
			rec.Efetivacao = info.Efetivacao
			rec.DataNascimento = info.DataNascimento
		}
		if idade, ok := Age(rec.DataNascimento, today, loc); ok {
			rec.Idade = &idade
		}
		enriched = append(enriched, rec)
	}
	return enriched
}
