// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package graph

import (
	"context"
	"fmt"
	"strings"

	apperrors "modgraph/cli/internal/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTable is the table PostgresStore keeps triples in.
const DefaultTable = "triples"

// PostgresStore keeps triples in a single Postgres table.
type PostgresStore struct {
	// Pool is the PostgreSQL connection pool
	Pool  *pgxpool.Pool
	table string
}

// OpenPostgres connects to dsn, verifies the connection and creates the
// triple table when missing. An empty table name selects DefaultTable.
func OpenPostgres(ctx context.Context, dsn, table string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Store, "open postgres pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.Wrap(apperrors.Store, "ping postgres", err)
	}
	s := NewPostgresStore(pool, table)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool *pgxpool.Pool, table string) *PostgresStore {
	if strings.TrimSpace(table) == "" {
		table = DefaultTable
	}
	return &PostgresStore{Pool: pool, table: pgx.Identifier{table}.Sanitize()}
}

// Migrate creates the triple table and its lookup index.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	idx := pgx.Identifier{strings.Trim(s.table, `"`) + "_predicate_object_idx"}.Sanitize()
	table := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			subject   TEXT    NOT NULL,
			predicate TEXT    NOT NULL,
			object    TEXT    NOT NULL,
			is_iri    BOOLEAN NOT NULL,
			datatype  TEXT    NOT NULL DEFAULT '',
			PRIMARY KEY (subject, predicate, object, is_iri)
		)`, s.table)
	if _, err := s.Pool.Exec(ctx, table); err != nil {
		return apperrors.Wrap(apperrors.Store, "create triple table", err)
	}
	index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (predicate, object)`, idx, s.table)
	if _, err := s.Pool.Exec(ctx, index); err != nil {
		return apperrors.Wrap(apperrors.Store, "create triple index", err)
	}
	return nil
}

// Insert writes triples in one transaction; existing triples are left alone.
func (s *PostgresStore) Insert(ctx context.Context, triples []Triple) error {
	if len(triples) == 0 {
		return nil
	}
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.Store, "begin insert", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	q := fmt.Sprintf(`INSERT INTO %s (subject, predicate, object, is_iri, datatype)
		VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`, s.table)
	batch := &pgx.Batch{}
	for _, t := range triples {
		batch.Queue(q, t.Subject, t.Predicate, t.Object.Value, t.Object.IsIRI(), t.Object.Datatype)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.Wrap(apperrors.Store, "insert triples", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.Wrap(apperrors.Store, "commit triples", err)
	}
	return nil
}

func (s *PostgresStore) ModulesForProgram(ctx context.Context, program string) ([]ModuleRef, error) {
	return s.modulesWhere(ctx, PredApplicationRange, IRI(Data(program)))
}

func (s *PostgresStore) ModulesByRelation(ctx context.Context, relation, object string) ([]ModuleRef, error) {
	term, err := ObjectTerm(relation, object)
	if err != nil {
		return nil, err
	}
	pred, _ := RelationPredicate(relation)
	return s.modulesWhere(ctx, pred, term)
}

func (s *PostgresStore) ModuleProperty(ctx context.Context, module, relation string) ([]string, error) {
	pred, err := RelationPredicate(relation)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
		SELECT DISTINCT v.object, v.is_iri
		FROM %[1]s m
		JOIN %[1]s v ON v.subject = m.subject AND v.predicate = $3
		WHERE m.predicate = $1 AND m.object = $2 AND NOT m.is_iri`, s.table)
	return s.values(ctx, "module property", q, PredModuleName, EncodeWS(module), pred)
}

func (s *PostgresStore) RelationRange(ctx context.Context, relation string) ([]string, error) {
	pred, err := RelationPredicate(relation)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT DISTINCT object, is_iri FROM %s WHERE predicate = $1`, s.table)
	return s.values(ctx, "relation range", q, pred)
}

func (s *PostgresStore) ModuleDomain(ctx context.Context) ([]string, error) {
	q := fmt.Sprintf(`SELECT DISTINCT object, is_iri FROM %s WHERE predicate = $1`, s.table)
	return s.values(ctx, "module domain", q, PredModuleName)
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.Pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, s.table)).Scan(&n); err != nil {
		return 0, apperrors.Wrap(apperrors.Store, "count triples", err)
	}
	return n, nil
}

func (s *PostgresStore) Close() { s.Pool.Close() }

// Drop removes the triple table. Used by tests that create throwaway tables.
func (s *PostgresStore) Drop(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, s.table))
	return err
}

func (s *PostgresStore) modulesWhere(ctx context.Context, pred string, obj Term) ([]ModuleRef, error) {
	q := fmt.Sprintf(`
		SELECT n.object, COALESCE(a.object, '')
		FROM %[1]s t
		JOIN %[1]s n ON n.subject = t.subject AND n.predicate = $3
		LEFT JOIN %[1]s a ON a.subject = t.subject AND a.predicate = $4
		WHERE t.predicate = $1 AND t.object = $2 AND t.is_iri = $5`, s.table)

	rows, err := s.Pool.Query(ctx, q, pred, obj.Value, PredModuleName, PredAim, obj.IsIRI())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Store, "query modules", err)
	}
	defer rows.Close()

	var refs []ModuleRef
	for rows.Next() {
		var name, aim string
		if err := rows.Scan(&name, &aim); err != nil {
			return nil, apperrors.Wrap(apperrors.Store, "scan module", err)
		}
		refs = append(refs, ModuleRef{Name: DecodeWS(name), Description: DecodeWS(aim)})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.Store, "query modules", err)
	}
	return sortRefs(refs), nil
}

// values runs q, which must select (object, is_iri), and returns display forms.
func (s *PostgresStore) values(ctx context.Context, op, q string, args ...any) ([]string, error) {
	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Store, op, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t Term
		var isIRI bool
		if err := rows.Scan(&t.Value, &isIRI); err != nil {
			return nil, apperrors.Wrap(apperrors.Store, op, err)
		}
		if isIRI {
			t.Kind = KindIRI
		} else {
			t.Kind = KindLiteral
		}
		out = append(out, t.Display())
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.Store, op, err)
	}
	return sortValues(out), nil
}
