package uistate

import (
	"context"
	"time"

	"masthead/internal/header"
)

// DefaultTTL bounds how long an idle visitor's header state is kept.
const DefaultTTL = 30 * time.Minute

// Record is what is kept between two page loads of one visitor: the header
// state plus the path of the last rendered page, used by header.Sync.
type Record struct {
	State    header.State `json:"state"`
	PrevPath string       `json:"prev_path"`
}

// Store persists Records by visitor id. Load of an unknown visitor returns a
// zero Record and no error.
type Store interface {
	Load(ctx context.Context, visitorID string) (Record, error)
	Save(ctx context.Context, visitorID string, rec Record) error
	// Update replaces the visitor's record with fn applied to it. Concurrent
	// updates of one visitor never interleave; fn may run more than once.
	Update(ctx context.Context, visitorID string, fn func(Record) Record) (Record, error)
}
