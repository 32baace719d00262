package levelstore

import (
	"os"
	"strconv"
	"testing"
)

// postgresTestConfig returns a PostgreSQL config when DELVEGEN_TEST_POSTGRES
// is set. Connection details come from DELVEGEN_TEST_POSTGRES_HOST, _PORT,
// _USER, _PASSWORD and _DATABASE.
func postgresTestConfig(t *testing.T) Config {
	t.Helper()
	if os.Getenv("DELVEGEN_TEST_POSTGRES") == "" {
		t.Skip("Skipping PostgreSQL test: DELVEGEN_TEST_POSTGRES not set")
	}

	cfg := Config{Driver: string(DialectPostgres), Postgres: DefaultPostgresConfig()}
	if v := os.Getenv("DELVEGEN_TEST_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v, err := strconv.Atoi(os.Getenv("DELVEGEN_TEST_POSTGRES_PORT")); err == nil {
		cfg.Postgres.Port = v
	}
	cfg.Postgres.User = os.Getenv("DELVEGEN_TEST_POSTGRES_USER")
	cfg.Postgres.Password = os.Getenv("DELVEGEN_TEST_POSTGRES_PASSWORD")
	if v := os.Getenv("DELVEGEN_TEST_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	return cfg
}

func TestPostgresRoundTrip(t *testing.T) {
	cfg := postgresTestConfig(t)

	s, err := OpenWithConfig(cfg)
	if err != nil {
		t.Fatalf("OpenWithConfig() failed: %v", err)
	}
	defer s.Close()
	if _, err := s.db.Exec("DELETE FROM levels"); err != nil {
		t.Fatalf("failed to clear levels: %v", err)
	}

	level := generate(t, 4, 5)
	id, err := s.Save(5, level)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	rec, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if rec.Map.Fingerprint() != level.Map.Fingerprint() {
		t.Error("archived tiles differ from the generated level")
	}
}
