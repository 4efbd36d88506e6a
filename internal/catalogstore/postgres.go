package catalogstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"woundcare-workers/internal/clinical/catalog"

	"github.com/lib/pq"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresSource reads one product per row. The rules column holds the same
// JSON object a catalog file carries under "rules".
type PostgresSource struct {
	db    *sql.DB
	table string
	query string
}

type productRow struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Category     string          `json:"category,omitempty"`
	Description  string          `json:"description,omitempty"`
	Alignment    string          `json:"alignment,omitempty"`
	Link         string          `json:"link,omitempty"`
	Rules        json.RawMessage `json:"rules,omitempty"`
}

// NewPostgresSource reads from table, which may be schema-qualified.
func NewPostgresSource(db *sql.DB, table string) (*PostgresSource, error) {
	quoted, err := quoteTable(table)
	if err != nil {
		return nil, err
	}
	return &PostgresSource{
		db:    db,
		table: table,
		query: `SELECT id, name,
			COALESCE(manufacturer, ''), COALESCE(category, ''), COALESCE(description, ''),
			COALESCE(alignment, ''), COALESCE(link, ''), rules
		FROM ` + quoted + `
		WHERE active
		ORDER BY position, id`,
	}, nil
}

func quoteTable(table string) (string, error) {
	if !identifierPattern.MatchString(table) {
		return "", fmt.Errorf("invalid catalog table name %q", table)
	}
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, "."), nil
}

func (s *PostgresSource) Name() string { return "postgres:" + s.table }

func (s *PostgresSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	products := []productRow{}
	for rows.Next() {
		var (
			p     productRow
			rules []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Manufacturer, &p.Category, &p.Description, &p.Alignment, &p.Link, &rules); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		if len(rules) > 0 {
			p.Rules = json.RawMessage(rules)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}

	doc, err := json.Marshal(struct {
		Version  string       `json:"version"`
		Products []productRow `json:"products"`
	}{Version: s.Name(), Products: products})
	if err != nil {
		return nil, fmt.Errorf("encode catalog document: %w", err)
	}
	return catalog.ParseFrom(s.Name(), doc)
}
