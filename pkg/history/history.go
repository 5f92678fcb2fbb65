// Package history records aggregation runs so they can be listed and
// retrieved later by ID.
//
// Two backends implement [Store]:
//   - [FileStore]: one JSON file per run under a data directory (CLI default)
//   - [MongoStore]: a MongoDB collection (server deployments)
//
// # Usage
//
//	store, err := history.NewFileStore("") // ~/.local/share/footrule/runs
//	run := history.NewRun(inputs, rankings, result)
//	if err := store.Put(ctx, run); err != nil {
//	    return err
//	}
//	runs, err := store.List(ctx, 20)
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/footrule/pkg/aggregate"
	"github.com/matzehuels/footrule/pkg/rank"
)

// ErrInvalidID is returned for IDs that are not UUIDs.
var ErrInvalidID = errors.New("invalid run id")

// DefaultListLimit is the number of runs List returns when limit <= 0.
const DefaultListLimit = 20

// Run is one recorded aggregation.
type Run struct {
	ID        string         `json:"id" bson:"_id"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	Inputs    []string       `json:"inputs,omitempty" bson:"inputs,omitempty"`
	Rankings  []rank.Ranking `json:"rankings" bson:"rankings"`
	Ranking   rank.Ranking   `json:"ranking" bson:"ranking"`
	Distance  float64        `json:"distance" bson:"distance"`
	Method    string         `json:"method" bson:"method"`
	Rounds    int            `json:"rounds" bson:"rounds"`
	Duration  time.Duration  `json:"duration_ns" bson:"duration_ns"`
	Cached    bool           `json:"cached" bson:"cached"`
}

// NewRun creates a run record with a fresh UUID for res computed from
// rankings. inputs names the sources of the rankings (file paths), if any.
func NewRun(inputs []string, rankings []rank.Ranking, res *aggregate.Result) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Inputs:    inputs,
		Rankings:  rankings,
		Ranking:   res.Ranking,
		Distance:  res.Distance,
		Method:    string(res.Method),
		Rounds:    res.Rounds,
	}
}

// Len returns the number of items in the consensus ranking.
func (r *Run) Len() int { return len(r.Ranking) }

// Store is the interface for run history backends.
type Store interface {
	// Get retrieves a run by ID.
	// Returns nil, nil if the run doesn't exist.
	Get(ctx context.Context, id string) (*Run, error)

	// Put stores a run, replacing any run with the same ID.
	Put(ctx context.Context, run *Run) error

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Delete removes a run. Deleting a missing run is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// ValidateID checks that id is a UUID, which keeps IDs safe to use as file
// names and query values.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Join(ErrInvalidID, err)
	}
	return nil
}

// NullStore records nothing.
type NullStore struct{}

func (NullStore) Get(context.Context, string) (*Run, error) { return nil, nil }
func (NullStore) Put(context.Context, *Run) error           { return nil }
func (NullStore) List(context.Context, int) ([]*Run, error) { return nil, nil }
func (NullStore) Delete(context.Context, string) error      { return nil }
func (NullStore) Close() error                              { return nil }

var _ Store = NullStore{}
