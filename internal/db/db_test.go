package db

import (
	"context"
	"testing"

	"github.com/emanuelegiona/gesturepad/internal/util"
	"github.com/stretchr/testify/require"
)

func testDatabase(t *testing.T) *Database {
	util.ConfigDir = t.TempDir()
	d, err := New(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, d.Close())
	})
	return d
}

func TestStageRuns(t *testing.T) {
	ctx := context.Background()
	q := testDatabase(t).Queries()

	id, err := q.StartStageRun(ctx, "libs")
	require.NoError(t, err)
	require.NoError(t, q.FinishStageRun(ctx, id, StatusOK, ""))

	id, err = q.StartStageRun(ctx, "mediapipe")
	require.NoError(t, err)
	require.NoError(t, q.FinishStageRun(ctx, id, StatusFailed, "no network"))

	// A second run of a stage supersedes the first.
	id, err = q.StartStageRun(ctx, "libs")
	require.NoError(t, err)
	require.NoError(t, q.FinishStageRun(ctx, id, StatusFailed, "apt broke"))

	runs, err := q.LatestStageRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byStage := make(map[string]StageRun)
	for _, run := range runs {
		byStage[run.Stage] = run
	}
	require.Equal(t, StatusFailed, byStage["libs"].Status)
	require.Equal(t, "apt broke", byStage["libs"].Detail)
	require.Equal(t, StatusFailed, byStage["mediapipe"].Status)
	require.True(t, byStage["libs"].FinishedAt.Valid)
}

func TestPatchRecords(t *testing.T) {
	ctx := context.Background()
	q := testDatabase(t).Queries()

	require.NoError(t, q.UpsertPatchRecord(ctx, "mediapipe/calculators/core/end_loop_calculator.h", "aaa"))
	require.NoError(t, q.UpsertPatchRecord(ctx, "mediapipe/calculators/core/end_loop_calculator.h", "bbb"))
	require.NoError(t, q.UpsertPatchRecord(ctx, "mediapipe/graphs/hand_tracking/multi_hand_tracking_desktop_live.pbtxt", "ccc"))

	records, err := q.PatchRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "bbb", records[0].SHA256)
}
