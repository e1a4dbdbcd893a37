package store

import (
	"time"

	"github.com/abhisek/physiq/internal/events"
	"github.com/abhisek/physiq/internal/persistence"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	CharacterID string
	Type        events.Type
	Limit       int       // max results (0 = unlimited)
	After       int64     // sequence > After
	Before      int64     // sequence < Before
	From        time.Time // timestamp >= From
	To          time.Time // timestamp <= To
}

// EventRecord is one journal entry.
type EventRecord struct {
	Sequence    int64
	Timestamp   time.Time
	CharacterID string
	Event       events.Event
}

// HistoryEntry is one accepted save of a character's progress.
type HistoryEntry struct {
	ID       int
	SaveID   string
	SavedAt  time.Time
	Document persistence.Document
}
