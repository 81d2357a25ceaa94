package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"licenca_dashboard/internal/classify"
)

// denialRow is one line of an imported indeferimento roster. Dates come in as
// text; numeric-looking values are stored as sheet serials so the import is
// indistinguishable from data typed into the spreadsheet.
type denialRow struct {
	BM             string `csv:"bm"`
	Indeferimento  string `csv:"indeferimento"`
	Efetivacao     string `csv:"efetivacao"`
	DataNascimento string `csv:"data_nascimento"`
}

type registroRow struct {
	BM           string `csv:"bm"`
	Nome         string `csv:"nome"`
	Status       string `csv:"status"`
	Divisao      string `csv:"divisao"`
	DataInicio   string `csv:"data_inicio"`
	DataTermino  string `csv:"data_termino"`
	DiasCorridos string `csv:"dias_corridos"`
	TipoLicenca  string `csv:"tipo_licenca"`
}

// ImportIndeferimentosCSV upserts every roster line of the file. Rows without
// a BM are skipped; the count of imported rows is returned.
func (s *Store) ImportIndeferimentosCSV(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var rows []denialRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return 0, fmt.Errorf("ler %s: %w", path, err)
	}
	imported := 0
	for _, row := range rows {
		if strings.TrimSpace(row.BM) == "" {
			continue
		}
		rec := classify.DenialRecord{
			BM:             row.BM,
			Indeferimento:  row.Indeferimento,
			Efetivacao:     cellValue(row.Efetivacao),
			DataNascimento: cellValue(row.DataNascimento),
		}
		if err := s.UpsertIndeferimento(ctx, rec); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// SeedRegistrosCSV loads an initial registro list. Existing rows keep their
// ids; seed rows always get fresh ones.
func (s *Store) SeedRegistrosCSV(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var rows []registroRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return 0, fmt.Errorf("ler %s: %w", path, err)
	}
	imported := 0
	for _, row := range rows {
		if strings.TrimSpace(row.BM) == "" {
			continue
		}
		if _, err := s.AddRegistro(ctx, row.record()); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func (row registroRow) record() classify.PrimaryRecord {
	return classify.PrimaryRecord{
		BM:           row.BM,
		Nome:         row.Nome,
		Status:       row.Status,
		Divisao:      row.Divisao,
		DataInicio:   cellValue(row.DataInicio),
		DataTermino:  cellValue(row.DataTermino),
		DiasCorridos: cellValue(row.DiasCorridos),
		TipoLicenca:  row.TipoLicenca,
	}
}

// cellValue mimics the sheet engine: a cell holding only digits becomes a
// number, everything else stays text, and blank cells are absent.
func cellValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}
