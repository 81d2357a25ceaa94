package classify

import (
	"fmt"
	"strings"
	"time"
)

// The export keeps the exact shape spreadsheet tools expect from the old
// dashboard: UTF-8 BOM, ';' separators, every field quoted.
const exportBOM = "\uFEFF"

var exportHeader = []string{
	"Posição", "BM", "Nome", "Status", "Data Início", "Data Término",
	"Dias Corridos", "Indeferimento", "Efetivação", "Data Nascimento", "Idade",
}

// ExportCSV serializes a ranked view for download. Positions are 1-based over
// the exported sequence. An empty input still produces the BOM and header
// line, never an error.
func ExportCSV(rows []EnrichedRecord, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(exportBOM)
	writeRow(&b, exportHeader)
	for i, row := range rows {
		idade := ""
		if row.Idade != nil {
			idade = Text(*row.Idade)
		}
		writeRow(&b, []string{
			Text(i + 1),
			Text(row.BM),
			row.Nome,
			row.Status,
			FormatDateDisplay(row.DataInicio, loc, "-"),
			FormatDateDisplay(row.DataTermino, loc, "-"),
			Text(row.DiasCorridos),
			row.IndeferimentoLabel(),
			FormatDateDisplay(row.Efetivacao, loc, "-"),
			FormatDateDisplay(row.DataNascimento, loc, "-"),
			idade,
		})
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// ExportFilename follows the download naming the old dashboard used.
func ExportFilename(today time.Time) string {
	return fmt.Sprintf("classificacao_licenca_premio_%s.csv", today.Format("2006-01-02"))
}
