// Package store persists the stand-in sheet data: the registro list and the
// indeferimento roster. Only the local sheet stub uses it; the dashboard
// itself keeps no database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"licenca_dashboard/internal/classify"
)

// Store wraps SQLite access for registros and indeferimentos.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS registros (
			id TEXT PRIMARY KEY,
			bm TEXT,
			nome TEXT,
			status TEXT,
			divisao TEXT,
			data_inicio TEXT,
			data_termino TEXT,
			dias_corridos TEXT,
			tipo_licenca TEXT,
			created_at TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS indeferimentos (
			bm TEXT PRIMARY KEY,
			indeferimento TEXT,
			efetivacao TEXT,
			data_nascimento TEXT,
			updated_at TIMESTAMP
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// rawColumn keeps a JSON value round-trippable: the sheet delivers dates as
// either numbers or strings, and the stub must hand back exactly what was
// stored.
func rawColumn(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func rawValue(col sql.NullString) any {
	if !col.Valid || col.String == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(col.String), &v); err != nil {
		return col.String
	}
	return v
}

func (s *Store) AddRegistro(ctx context.Context, rec classify.PrimaryRecord) (string, error) {
	id := classify.Text(rec.ID)
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO registros(id, bm, nome, status, divisao, data_inicio, data_termino, dias_corridos, tipo_licenca, created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET bm=excluded.bm, nome=excluded.nome, status=excluded.status, divisao=excluded.divisao,
			data_inicio=excluded.data_inicio, data_termino=excluded.data_termino, dias_corridos=excluded.dias_corridos, tipo_licenca=excluded.tipo_licenca`,
		id, rec.BM, rec.Nome, rec.Status, rec.Divisao,
		rawColumn(rec.DataInicio), rawColumn(rec.DataTermino), rawColumn(rec.DiasCorridos), rec.TipoLicenca, time.Now().UTC())
	return id, err
}

func (s *Store) DeleteRegistro(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM registros WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) ListRegistros(ctx context.Context) ([]classify.PrimaryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, bm, nome, status, divisao, data_inicio, data_termino, dias_corridos, tipo_licenca FROM registros ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	recs := []classify.PrimaryRecord{}
	for rows.Next() {
		var rec classify.PrimaryRecord
		var id string
		var ini, fim, dias sql.NullString
		if err := rows.Scan(&id, &rec.BM, &rec.Nome, &rec.Status, &rec.Divisao, &ini, &fim, &dias, &rec.TipoLicenca); err != nil {
			return nil, err
		}
		rec.ID = id
		rec.DataInicio = rawValue(ini)
		rec.DataTermino = rawValue(fim)
		rec.DiasCorridos = rawValue(dias)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// UpsertIndeferimento keeps one roster row per BM; the key is stored
// normalized so repeated imports of "a1 " and "A1" land on the same row.
func (s *Store) UpsertIndeferimento(ctx context.Context, rec classify.DenialRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO indeferimentos(bm, indeferimento, efetivacao, data_nascimento, updated_at)
		VALUES(?,?,?,?,?)
		ON CONFLICT(bm) DO UPDATE SET indeferimento=excluded.indeferimento, efetivacao=excluded.efetivacao,
			data_nascimento=excluded.data_nascimento, updated_at=excluded.updated_at`,
		classify.NormalizeBM(rec.BM), rec.Indeferimento, rawColumn(rec.Efetivacao), rawColumn(rec.DataNascimento), time.Now().UTC())
	return err
}

func (s *Store) ListIndeferimentos(ctx context.Context) ([]classify.DenialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bm, indeferimento, efetivacao, data_nascimento FROM indeferimentos ORDER BY bm ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	recs := []classify.DenialRecord{}
	for rows.Next() {
		var rec classify.DenialRecord
		var efet, nas sql.NullString
		if err := rows.Scan(&rec.BM, &rec.Indeferimento, &efet, &nas); err != nil {
			return nil, err
		}
		rec.Efetivacao = rawValue(efet)
		rec.DataNascimento = rawValue(nas)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
