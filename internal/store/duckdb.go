// Package store persists annotation records in DuckDB.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/variomics/varannot/internal/annotate"
	"github.com/variomics/varannot/internal/consequence"
	"github.com/variomics/varannot/internal/hgvs"
)

// Store manages a DuckDB connection for persisting annotation records.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS annotations (
		name VARCHAR,
		region VARCHAR,
		start_pos BIGINT,
		end_pos BIGINT,
		strand TINYINT,
		allele_string VARCHAR,
		source VARCHAR,
		qc_codes VARCHAR,
		hgvs_genomic VARCHAR,
		hgvs_cdna VARCHAR,
		consequences VARCHAR,
		PRIMARY KEY (name, region, start_pos, allele_string)
	)`)
	return err
}

// recordKey is the composite key for deduplicating records before writing.
type recordKey struct {
	name, region, alleles string
	start                 int64
}

// WriteAnnotations batch-inserts annotation records using the Appender API.
// Duplicate (name, region, start, allele_string) entries are deduplicated
// before writing.
func (s *Store) WriteAnnotations(anns []*annotate.Annotation) error {
	if len(anns) == 0 {
		return nil
	}

	seen := make(map[recordKey]bool, len(anns))
	deduped := make([]*annotate.Annotation, 0, len(anns))
	for _, a := range anns {
		k := recordKey{a.Name, a.Region, a.AlleleString, a.Start}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, a)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "annotations")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, a := range deduped {
		if err := appender.AppendRow(
			a.Name, a.Region, a.Start, a.End, a.Strand,
			a.AlleleString, a.Source,
			joinCodes(a.QcCodes),
			joinNotations(a.Genomic),
			joinNotations(a.CDNA),
			joinConsequences(a.Consequences),
		); err != nil {
			return fmt.Errorf("append annotation: %w", err)
		}
	}

	return appender.Flush()
}

// AnnotationCount returns the number of stored annotation records.
func (s *Store) AnnotationCount() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM annotations`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count annotations: %w", err)
	}
	return n, nil
}

func joinCodes(codes []int) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}

func joinNotations(notations []hgvs.Notation) string {
	parts := make([]string, len(notations))
	for i := range notations {
		parts[i] = notations[i].Rendered
	}
	return strings.Join(parts, ",")
}

func joinConsequences(set consequence.Set) string {
	parts := make([]string, len(set))
	for i, c := range set {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
