package ledger

import (
	"fmt"
	"time"

	"katha/internal/core"
)

// EventKind names the mutation an Event reports.
type EventKind string

const (
	KathaCreated  EventKind = "katha.created"
	EntryRecorded EventKind = "entry.recorded"
	EntryDeleted  EventKind = "entry.deleted"
)

// Snapshot is the whole ledger state at one point in time. It is treated as
// an immutable value: Apply never modifies the receiver's slices.
type Snapshot struct {
	Kathas   []core.Katha
	Entries  []core.LedgerEntry
	Revision int64
	NextSeq  int64
}

// Event describes a successful mutation.
type Event struct {
	Kind     EventKind `json:"kind"`
	Revision int64     `json:"revision"`
	KathaID  string    `json:"kathaId,omitempty"`
	EntryID  string    `json:"entryId,omitempty"`
	At       time.Time `json:"at"`
}

// Mutation is a change request applied to a Snapshot.
type Mutation interface {
	apply(s Snapshot) (Snapshot, Event, error)
}

// CreateKatha adds a katha at the head of the katha list.
type CreateKatha struct {
	Katha core.Katha
}

// RecordEntry adds an entry at the head of the entry list.
type RecordEntry struct {
	Entry core.LedgerEntry
}

// DeleteEntry removes the entry with ID.
type DeleteEntry struct {
	ID string
}

// NewSnapshot builds a snapshot from loaded collections. NextSeq continues
// after the highest sequence already present.
func NewSnapshot(kathas []core.Katha, entries []core.LedgerEntry) Snapshot {
	var maxSeq int64
	for _, e := range entries {
		if e.Seq > maxSeq {
			maxSeq = e.Seq
		}
	}
	return Snapshot{Kathas: kathas, Entries: entries, NextSeq: maxSeq + 1}
}

// Apply returns the snapshot that results from m, with the revision bumped.
// On error the receiver is returned unchanged.
func (s Snapshot) Apply(m Mutation, now time.Time) (Snapshot, Event, error) {
	if m == nil {
		return s, Event{}, fmt.Errorf("nil mutation")
	}
	next, ev, err := m.apply(s)
	if err != nil {
		return s, Event{}, err
	}
	next.Revision = s.Revision + 1
	ev.Revision = next.Revision
	ev.At = now
	return next, ev, nil
}

// Katha returns the katha with id.
func (s Snapshot) Katha(id string) (core.Katha, bool) {
	for _, k := range s.Kathas {
		if k.ID == id {
			return k, true
		}
	}
	return core.Katha{}, false
}

// Entry returns the entry with id.
func (s Snapshot) Entry(id string) (core.LedgerEntry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return core.LedgerEntry{}, false
}

func (m CreateKatha) apply(s Snapshot) (Snapshot, Event, error) {
	if err := m.Katha.Validate(); err != nil {
		return s, Event{}, fmt.Errorf("create katha: %w", err)
	}
	if _, ok := s.Katha(m.Katha.ID); ok {
		return s, Event{}, fmt.Errorf("create katha %s: %w", m.Katha.ID, core.ErrDuplicateID)
	}
	kathas := make([]core.Katha, 0, len(s.Kathas)+1)
	kathas = append(kathas, m.Katha)
	kathas = append(kathas, s.Kathas...)
	s.Kathas = kathas
	return s, Event{Kind: KathaCreated, KathaID: m.Katha.ID}, nil
}

func (m RecordEntry) apply(s Snapshot) (Snapshot, Event, error) {
	if len(s.Kathas) == 0 {
		return s, Event{}, fmt.Errorf("record entry: %w", core.ErrNoKathas)
	}
	e := m.Entry
	if err := e.Validate(); err != nil {
		return s, Event{}, fmt.Errorf("record entry: %w", err)
	}
	if _, ok := s.Katha(e.KathaID); !ok {
		return s, Event{}, fmt.Errorf("record entry for %s: %w", e.KathaID, core.ErrMissingKatha)
	}
	if _, ok := s.Entry(e.ID); ok {
		return s, Event{}, fmt.Errorf("record entry %s: %w", e.ID, core.ErrDuplicateID)
	}
	if s.NextSeq < 1 {
		s.NextSeq = 1
	}
	e.Seq = s.NextSeq
	s.NextSeq++
	entries := make([]core.LedgerEntry, 0, len(s.Entries)+1)
	entries = append(entries, e)
	entries = append(entries, s.Entries...)
	s.Entries = entries
	return s, Event{Kind: EntryRecorded, KathaID: e.KathaID, EntryID: e.ID}, nil
}

func (m DeleteEntry) apply(s Snapshot) (Snapshot, Event, error) {
	removed, ok := s.Entry(m.ID)
	if !ok {
		return s, Event{}, fmt.Errorf("delete entry %s: %w", m.ID, core.ErrEntryNotFound)
	}
	entries := make([]core.LedgerEntry, 0, len(s.Entries)-1)
	for _, e := range s.Entries {
		if e.ID != m.ID {
			entries = append(entries, e)
		}
	}
	s.Entries = entries
	return s, Event{Kind: EntryDeleted, KathaID: removed.KathaID, EntryID: removed.ID}, nil
}
