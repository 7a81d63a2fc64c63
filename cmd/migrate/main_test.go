package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingExecer struct {
	statements []string
}

func (r *recordingExecer) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	r.statements = append(r.statements, strings.TrimSpace(query))
	return nil, nil
}

func TestSplitSQL(t *testing.T) {
	statements := splitSQL("-- comment\nCREATE TABLE a (id int);\nCREATE INDEX b\n  ON a (id);\nSELECT 1")
	if len(statements) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(statements), statements)
	}
	if strings.Contains(statements[0], "comment") {
		t.Fatalf("comment lines must be dropped: %q", statements[0])
	}
}

func TestApplyFileSkipsDownSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "001_test.sql")
	content := "CREATE TABLE ledger_snapshots (ledger_key text);\n\n-- +migrate Down\nDROP TABLE ledger_snapshots;\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write migration: %v", err)
	}
	rec := &recordingExecer{}
	if err := applyFile(context.Background(), rec, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.statements) != 1 || !strings.HasPrefix(rec.statements[0], "CREATE TABLE") {
		t.Fatalf("unexpected statements: %q", rec.statements)
	}
}

func TestShippedMigrationParses(t *testing.T) {
	rec := &recordingExecer{}
	if err := applyFile(context.Background(), rec, filepath.Join("..", "..", "migrations", "001_ledger_snapshots.sql")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.statements) != 1 || !strings.Contains(rec.statements[0], "ledger_snapshots") {
		t.Fatalf("unexpected statements: %q", rec.statements)
	}
}
