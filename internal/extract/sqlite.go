package extract

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // pure-Go sqlite driver, registered as "sqlite"
)

// extractSQLite serializes every user table of the database to a text
// block prefixed with its table name, concatenated in sqlite_master
// discovery order. The driver needs a file path, so the upload bytes are
// staged in a temp file for the duration of the read.
func extractSQLite(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "docqa-*.db")
	if err != nil {
		return "", fmt.Errorf("%w: staging sqlite file: %v", ErrExtraction, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("%w: staging sqlite file: %v", ErrExtraction, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: staging sqlite file: %v", ErrExtraction, err)
	}

	db, err := sql.Open("sqlite", tmp.Name()+"?mode=ro")
	if err != nil {
		return "", fmt.Errorf("%w: opening sqlite database: %v", ErrExtraction, err)
	}
	defer func() {
		_ = db.Close()
	}()

	tables, err := listTables(ctx, db)
	if err != nil {
		return "", err
	}
	if len(tables) == 0 {
		return "", fmt.Errorf("%w: sqlite database has no tables", ErrExtraction)
	}

	var out strings.Builder
	for _, table := range tables {
		text, err := dumpTable(ctx, db, table)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&out, "Table: %s\n%s\n", table, text)
	}
	return out.String(), nil
}

func listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing sqlite tables: %v", ErrExtraction, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: listing sqlite tables: %v", ErrExtraction, err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing sqlite tables: %v", ErrExtraction, err)
	}
	return tables, nil
}

func dumpTable(ctx context.Context, db *sql.DB, table string) (string, error) {
	// Table names come from sqlite_master, not user input; quoting guards
	// against names containing double quotes.
	query := fmt.Sprintf(`SELECT * FROM %q`, table)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%w: reading table %s: %v", ErrExtraction, table, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("%w: reading table %s: %v", ErrExtraction, table, err)
	}

	var records [][]string
	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return "", fmt.Errorf("%w: reading table %s: %v", ErrExtraction, table, err)
		}
		record := make([]string, len(columns))
		for i, v := range values {
			record[i] = formatValue(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("%w: reading table %s: %v", ErrExtraction, table, err)
	}

	return renderTable(columns, records), nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
