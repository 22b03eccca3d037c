// SPDX-License-Identifier: AGPL-3.0-or-later
package journal

import (
	"context"
	"testing"
	"time"

	"github.com/cm-org/cm/internal/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return db
}

func TestRecordAndRecent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	okResult := types.ExecutionResult{
		Steps: []types.StepResult{
			{Step: types.Step{Label: "configure"}, State: types.StepSucceeded, Duration: 2 * time.Second},
			{Step: types.Step{Label: "build"}, State: types.StepSucceeded, Duration: 90 * time.Second},
		},
		FirstFailure: -1,
	}
	failResult := types.ExecutionResult{
		Steps: []types.StepResult{
			{Step: types.Step{Label: "build"}, State: types.StepFailed, ExitCode: 2, Duration: 5 * time.Second},
		},
		FirstFailure: 0,
	}

	firstID, err := db.Record(ctx, types.OpBuild, base, base.Add(92*time.Second), okResult)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	secondID, err := db.Record(ctx, types.OpBuild, base.Add(time.Hour), base.Add(time.Hour+5*time.Second), failResult)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if firstID == secondID {
		t.Fatalf("run IDs collide: %q", firstID)
	}

	runs, err := db.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Recent returned %d runs, want 2", len(runs))
	}

	// Newest first.
	if runs[0].ID != secondID || runs[1].ID != firstID {
		t.Fatalf("unexpected order: got %q, %q", runs[0].ID, runs[1].ID)
	}
	if runs[0].Succeeded || runs[0].ExitCode != 2 {
		t.Fatalf("failed run recorded as succeeded=%v exit=%d", runs[0].Succeeded, runs[0].ExitCode)
	}
	if !runs[1].Succeeded || runs[1].ExitCode != 0 {
		t.Fatalf("ok run recorded as succeeded=%v exit=%d", runs[1].Succeeded, runs[1].ExitCode)
	}
	if runs[1].Op != types.OpBuild {
		t.Fatalf("op = %q, want %q", runs[1].Op, types.OpBuild)
	}
	if got := runs[1].StartedAt.UTC(); !got.Equal(base) {
		t.Fatalf("started = %v, want %v", got, base)
	}

	steps := runs[1].Steps
	if len(steps) != 2 {
		t.Fatalf("recorded %d steps, want 2", len(steps))
	}
	if steps[0].Label != "configure" || steps[1].Label != "build" {
		t.Fatalf("step order: %q, %q", steps[0].Label, steps[1].Label)
	}
	if steps[1].State != types.StepSucceeded {
		t.Fatalf("step state = %q", steps[1].State)
	}
	if steps[1].Duration != 90*time.Second {
		t.Fatalf("step duration = %v", steps[1].Duration)
	}
}

func TestRecentLimit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		result := types.ExecutionResult{
			Steps:        []types.StepResult{{Step: types.Step{Label: "build"}, State: types.StepSucceeded}},
			FirstFailure: -1,
		}
		if _, err := db.Record(ctx, types.OpBuild, base.Add(time.Duration(i)*time.Minute), base.Add(time.Duration(i)*time.Minute+time.Second), result); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	runs, err := db.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Recent(2) returned %d runs", len(runs))
	}
}

func TestRecentEmpty(t *testing.T) {
	db := openTestDB(t)

	runs, err := db.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("empty journal returned %d runs", len(runs))
	}
}
