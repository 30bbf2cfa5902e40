package db

import (
	"context"
	"database/sql"
	"time"
)

// Queries wraps the provisioning state tables. The statements are written by
// hand; the schema lives in the embedded goose migrations.
type Queries struct {
	db *sql.DB
}

const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)

type StageRun struct {
	ID         int64
	Stage      string
	Status     string
	Detail     string
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

type PatchRecord struct {
	Destination string
	SHA256      string
	AppliedAt   time.Time
}

func (q *Queries) StartStageRun(ctx context.Context, stage string) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO stage_run (stage, status, started_at) VALUES (?, ?, ?)`,
		stage, StatusRunning, time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) FinishStageRun(ctx context.Context, id int64, status, detail string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE stage_run SET status = ?, detail = ?, finished_at = ? WHERE id = ?`,
		status, detail, time.Now().UTC(), id,
	)
	return err
}

// LatestStageRuns returns the most recent run of every stage.
func (q *Queries) LatestStageRuns(ctx context.Context) ([]StageRun, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, stage, status, detail, started_at, finished_at
		 FROM stage_run
		 WHERE id IN (SELECT MAX(id) FROM stage_run GROUP BY stage)
		 ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var runs []StageRun
	for rows.Next() {
		var r StageRun
		if err = rows.Scan(&r.ID, &r.Stage, &r.Status, &r.Detail, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (q *Queries) UpsertPatchRecord(ctx context.Context, destination, sha256 string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO patch_record (destination, sha256, applied_at) VALUES (?, ?, ?)
		 ON CONFLICT (destination) DO UPDATE SET sha256 = excluded.sha256, applied_at = excluded.applied_at`,
		destination, sha256, time.Now().UTC(),
	)
	return err
}

func (q *Queries) PatchRecords(ctx context.Context) ([]PatchRecord, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT destination, sha256, applied_at FROM patch_record ORDER BY destination`,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []PatchRecord
	for rows.Next() {
		var r PatchRecord
		if err = rows.Scan(&r.Destination, &r.SHA256, &r.AppliedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
