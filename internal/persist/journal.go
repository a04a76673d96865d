package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Transition is one journaled visibility change.
type Transition struct {
	EntityID   uint64
	ObjectName string
	Visible    bool
	Cycle      uint64
	RecordedAt time.Time
}

// JournalRepo writes visibility transitions for one culling run.
type JournalRepo struct {
	db    *DB
	runID int64
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// RunID is the current run, or 0 before StartRun.
func (r *JournalRepo) RunID() int64 { return r.runID }

// StartRun opens a new run row that subsequent writes belong to.
func (r *JournalRepo) StartRun(ctx context.Context, name string) (int64, error) {
	var id int64
	if err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO culling_runs (name) VALUES ($1) RETURNING id`, name,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}
	r.runID = id
	return id, nil
}

// StopRun stamps the current run as finished.
func (r *JournalRepo) StopRun(ctx context.Context) error {
	if r.runID == 0 {
		return nil
	}
	if _, err := r.db.Pool.Exec(ctx,
		`UPDATE culling_runs SET stopped_at = now() WHERE id = $1`, r.runID,
	); err != nil {
		return fmt.Errorf("stop run: %w", err)
	}
	return nil
}

// WriteTransitions atomically writes a batch of transitions in a single
// transaction.
func (r *JournalRepo) WriteTransitions(ctx context.Context, entries []Transition) error {
	if len(entries) == 0 {
		return nil
	}
	if r.runID == 0 {
		return fmt.Errorf("journal write: no run started")
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO visibility_transitions (run_id, entity_id, object_name, visible, cycle, recorded_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			r.runID, int64(e.EntityID), e.ObjectName, e.Visible, int64(e.Cycle), e.RecordedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}

	return tx.Commit(ctx)
}

// LatestStates returns each object's last journaled visibility in the
// current run.
func (r *JournalRepo) LatestStates(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT DISTINCT ON (object_name) object_name, visible
		   FROM visibility_transitions
		  WHERE run_id = $1
		  ORDER BY object_name, cycle DESC, id DESC`, r.runID,
	)
	if err != nil {
		return nil, fmt.Errorf("latest states: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		var visible bool
		if err := rows.Scan(&name, &visible); err != nil {
			return nil, fmt.Errorf("scan latest state: %w", err)
		}
		out[name] = visible
	}
	return out, rows.Err()
}

// Prune deletes transitions recorded before cutoff across all runs.
func (r *JournalRepo) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM visibility_transitions WHERE recorded_at < $1`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	return tag.RowsAffected(), nil
}
