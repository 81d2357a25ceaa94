package classify

import (
	"fmt"
	"strconv"
	"strings"
)

// PrimaryRecord is one license request as the sheet API returns it. Date and
// numeric fields keep their raw JSON value (spreadsheet serial number or
// string) so the normalizer decides how to read them.
type PrimaryRecord struct {
	ID           any    `json:"id"`
	BM           string `json:"bm"`
	Nome         string `json:"nome"`
	Status       string `json:"status"`
	Divisao      string `json:"divisao"`
	DataInicio   any    `json:"dataInicio"`
	DataTermino  any    `json:"dataTermino"`
	DiasCorridos any    `json:"diasCorridos"`
	TipoLicenca  string `json:"tipoLicenca"`
}

// DenialRecord is one entry of the historical indeferimento roster.
type DenialRecord struct {
	BM             string `json:"bm"`
	Indeferimento  string `json:"indeferimento"`
	Efetivacao     any    `json:"efetivacao"`
	DataNascimento any    `json:"dataNascimento"`
}

// EnrichedRecord is a PrimaryRecord joined with its denial history. It exists
// only for the lifetime of one classification pass.
type EnrichedRecord struct {
	PrimaryRecord
	Indeferido     bool `json:"indeferido"`
	Efetivacao     any  `json:"efetivacao"`
	DataNascimento any  `json:"dataNascimento"`
	Idade          *int `json:"idade"`
}

// IndeferimentoLabel renders the denial flag the way both screens and the CSV
// export spell it.
func (r EnrichedRecord) IndeferimentoLabel() string {
	if r.Indeferido {
		return "SIM"
	}
	return "NÃO"
}

// Text renders a raw JSON value for search and export. Whole-number floats
// (the usual JSON decoding of spreadsheet integers) print without a decimal
// point.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// NormalizeBM produces the join key shared by both datasets: trimmed and
// uppercased, so "a1 " and "A1" collide.
func NormalizeBM(bm string) string {
	return strings.ToUpper(strings.TrimSpace(bm))
}
