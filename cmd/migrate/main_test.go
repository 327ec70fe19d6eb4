package main

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPendingMigrations_SkipsApplied(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "002_partitions.sql", "CREATE TABLE b (id INT);")
	writeFile(t, dir, "001_keywords.sql", "CREATE TABLE a (id INT);")
	writeFile(t, dir, "notes.txt", "not a migration")

	pending, err := pendingMigrations(dir, map[string]bool{"001_keywords.sql": true})
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0] != "002_partitions.sql" {
		t.Errorf("pending = %v", pending)
	}
}

func TestPendingMigrations_LexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "003_runs.sql", "x")
	writeFile(t, dir, "001_keywords.sql", "x")
	writeFile(t, dir, "002_partitions.sql", "x")

	pending, err := pendingMigrations(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"001_keywords.sql", "002_partitions.sql", "003_runs.sql"}
	for i, name := range want {
		if pending[i] != name {
			t.Fatalf("pending = %v, want %v", pending, want)
		}
	}
}

func TestApplyMigration_RecordsInSameTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	dir := t.TempDir()
	writeFile(t, dir, "001_keywords.sql", "CREATE TABLE keywords (id INT);")

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE keywords").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schema_migrations (filename) VALUES ($1)`)).
		WithArgs("001_keywords.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := applyMigration(db, dir, "001_keywords.sql"); err != nil {
		t.Fatalf("applyMigration: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestApplyMigration_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	dir := t.TempDir()
	writeFile(t, dir, "001_keywords.sql", "CREATE TABLE keywords (id INT);")

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE keywords").
		WillReturnError(os.ErrInvalid)
	mock.ExpectRollback()

	if err := applyMigration(db, dir, "001_keywords.sql"); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAppliedMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT filename FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"filename"}).
			AddRow("001_keywords.sql").
			AddRow("002_partitions.sql"))

	applied, err := appliedMigrations(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 2 || !applied["001_keywords.sql"] || !applied["002_partitions.sql"] {
		t.Errorf("applied = %v", applied)
	}
}
