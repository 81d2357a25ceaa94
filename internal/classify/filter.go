package classify

import (
	"strings"
	"time"
)

// DenialFilter narrows a view to denied or not-denied records. The values
// mirror the <select> options on the classification page.
type DenialFilter string

const (
	DenialFilterAll       DenialFilter = "all"
	DenialFilterDenied    DenialFilter = "sim"
	DenialFilterNotDenied DenialFilter = "nao"
)

// ParseDenialFilter maps a query-string value onto a filter; anything
// unrecognized means "all".
func ParseDenialFilter(s string) DenialFilter {
	switch DenialFilter(strings.ToLower(strings.TrimSpace(s))) {
	case DenialFilterDenied:
		return DenialFilterDenied
	case DenialFilterNotDenied:
		return DenialFilterNotDenied
	default:
		return DenialFilterAll
	}
}

// FilterRecords applies the free-text search and the denial filter over an
// already ranked list, preserving relative order. The two conditions compose
// by AND; an empty term and DenialFilterAll pass everything through.
//
// The searchable fields are a fixed contract, not whatever happens to be on
// the struct: see searchableValues.
func FilterRecords(rows []EnrichedRecord, term string, denial DenialFilter, loc *time.Location) []EnrichedRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]EnrichedRecord, 0, len(rows))
	for _, row := range rows {
		switch denial {
		case DenialFilterDenied:
			if !row.Indeferido {
				continue
			}
		case DenialFilterNotDenied:
			if row.Indeferido {
				continue
			}
		}
		if term != "" && !matchesTerm(row, term, loc) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchesTerm(row EnrichedRecord, term string, loc *time.Location) bool {
	for _, value := range searchableValues(row, loc) {
		if strings.Contains(strings.ToLower(value), term) {
			return true
		}
	}
	return false
}

// searchableValues enumerates the declared searchable fields of a record: the
// identifiers and labels as stored, dates in both raw and display form, and
// the denial flag as its SIM/NÃO label.
func searchableValues(row EnrichedRecord, loc *time.Location) []string {
	idade := ""
	if row.Idade != nil {
		idade = Text(*row.Idade)
	}
	return []string{
		Text(row.ID),
		row.BM,
		row.Nome,
		row.Status,
		row.Divisao,
		Text(row.DataInicio),
		FormatDateDisplay(row.DataInicio, loc, ""),
		Text(row.DataTermino),
		FormatDateDisplay(row.DataTermino, loc, ""),
		Text(row.DiasCorridos),
		row.TipoLicenca,
		row.IndeferimentoLabel(),
		Text(row.Efetivacao),
		FormatDateDisplay(row.Efetivacao, loc, ""),
		Text(row.DataNascimento),
		FormatDateDisplay(row.DataNascimento, loc, ""),
		idade,
	}
}
