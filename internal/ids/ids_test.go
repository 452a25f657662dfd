package ids

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	a, b := New(EntryPrefix), New(EntryPrefix)
	if a == b {
		t.Fatalf("ids should differ: %s", a)
	}
	if !strings.HasPrefix(a, "entry_") {
		t.Fatalf("missing prefix: %s", a)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(a, "entry_")); err != nil {
		t.Fatalf("random part is not a uuid: %v", err)
	}
	if strings.Contains(New(""), "_") {
		t.Fatalf("empty prefix should not add a separator")
	}
}

func TestSequence(t *testing.T) {
	gen := Sequence()
	got := []string{gen(KathaPrefix), gen(EntryPrefix), gen(KathaPrefix)}
	want := []string{"katha_1", "entry_1", "katha_2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
