package classify

import (
	"testing"
	"time"
)

func TestBuildDenialIndexLastWriteWins(t *testing.T) {
	ix := BuildDenialIndex([]DenialRecord{
		{BM: "A1", Indeferimento: "sim"},
		{BM: "a1 ", Indeferimento: "nao"},
	})

	rec, ok := ix.Lookup("A1")
	if !ok {
		t.Fatal("expected A1 to be indexed")
	}
	if rec.Indeferimento != "nao" {
		t.Fatalf("expected the later row to win, got %q", rec.Indeferimento)
	}
	if ix.IsDenied("A1") {
		t.Fatal("A1 should not be denied after the nao row overwrote the sim row")
	}
}

func TestIsDeniedNormalizesKeyNotValue(t *testing.T) {
	ix := BuildDenialIndex([]DenialRecord{
		{BM: "b2", Indeferimento: "Sim"},
		{BM: "C3", Indeferimento: "indeferido"},
	})

	if got := ix.IsDenied(" b2"); got != ix.IsDenied("B2") {
		t.Fatal("denial check must be whitespace and case insensitive on the key")
	}
	if !ix.IsDenied("B2") {
		t.Fatal(`"Sim" should count as denied`)
	}
	if ix.IsDenied("C3") {
		t.Fatal(`only a literal SIM counts as denied`)
	}
	if ix.IsDenied("nunca visto") {
		t.Fatal("unknown BM should not be denied")
	}
}

func TestEnrichJoinsAndDerives(t *testing.T) {
	today := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	ix := BuildDenialIndex([]DenialRecord{
		{BM: "A1", Indeferimento: "SIM", Efetivacao: "2020-01-01", DataNascimento: "1960-05-10"},
		{BM: "B2", Indeferimento: "NAO", Efetivacao: "2021-07-01", DataNascimento: "qual?"},
	})
	primary := []PrimaryRecord{
		{BM: " a1", Nome: "Ana"},
		{BM: "B2", Nome: "Bruno"},
		{BM: "Z9", Nome: "Zilda"},
	}

	enriched := Enrich(primary, ix, today, saoPaulo)
	if len(enriched) != len(primary) {
		t.Fatalf("enrichment must be one-to-one, got %d rows", len(enriched))
	}

	ana := enriched[0]
	if !ana.Indeferido || ana.Efetivacao != "2020-01-01" || ana.DataNascimento != "1960-05-10" {
		t.Fatalf("unexpected enrichment for matched denied row: %+v", ana)
	}
	if ana.Idade == nil || *ana.Idade != 64 {
		t.Fatalf("expected idade 64, got %v", ana.Idade)
	}

	bruno := enriched[1]
	if bruno.Indeferido {
		t.Fatal("a NAO roster entry must not mark the record denied")
	}
	if bruno.Efetivacao != "2021-07-01" {
		t.Fatal("matched rows copy efetivacao even when not denied")
	}
	if bruno.Idade != nil {
		t.Fatal("unparseable birth date must leave idade absent")
	}

	zilda := enriched[2]
	if zilda.Indeferido || zilda.Efetivacao != nil || zilda.DataNascimento != nil || zilda.Idade != nil {
		t.Fatalf("unmatched row must stay bare: %+v", zilda)
	}
}
