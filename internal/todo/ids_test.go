package todo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

func TestIDGenerator(t *testing.T) {
	t.Run("xid by default", func(t *testing.T) {
		gen, err := IDGenerator("")
		if err != nil {
			t.Fatal(err)
		}
		id := gen()
		if _, err := xid.FromString(id); err != nil {
			t.Errorf("%q is not an xid: %v", id, err)
		}
	})

	t.Run("uuid v7", func(t *testing.T) {
		gen, err := IDGenerator(IDFormatUUID)
		if err != nil {
			t.Fatal(err)
		}
		parsed, err := uuid.Parse(gen())
		if err != nil {
			t.Fatal(err)
		}
		if parsed.Version() != 7 {
			t.Errorf("version: got %d, want 7", parsed.Version())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := IDGenerator("snowflake"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("ids are distinct", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			for _, id := range []string{NewXID(), NewUUIDv7()} {
				if seen[id] {
					t.Fatalf("duplicate id %q", id)
				}
				seen[id] = true
			}
		}
	})
}
