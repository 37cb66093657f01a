package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	if len(ups) == 0 {
		t.Fatalf("expected embedded migrations")
	}
	for name := range ups {
		if !downs[name] {
			t.Errorf("migration %s has no down file", name)
		}
	}
}

func TestSeedMatchesDirectoryColumns(t *testing.T) {
	raw, err := fs.ReadFile(FS, "000002_seed_sample_lawyers.up.sql")
	if err != nil {
		t.Fatalf("read seed: %v", err)
	}
	if got := strings.Count(string(raw), "ARRAY["); got != 8 {
		t.Fatalf("expected 8 seeded lawyers, got %d", got)
	}
}
