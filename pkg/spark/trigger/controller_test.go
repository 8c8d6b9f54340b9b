package trigger

import (
	"context"
	"strings"
	"testing"
	"time"

	"spark-journal-be/pkg/spark"
)

func testTuning() spark.TuningSettings {
	t := spark.DefaultTuning()
	t.DebounceMs = 1000
	t.MinParagraphLength = 10
	t.MinParagraphWords = 3
	t.MinQueryGapMs = 5000
	t.CooldownMs = 20000
	t.MaxAnnotationsPer = 6
	t.MinParagraphGap = 1
	return t
}

type capturedRun struct {
	inv Invocation
	ctx context.Context
}

// newHarness wires a controller to a channel-backed runner so tests can
// observe runs deterministically.
func newHarness(tuning spark.TuningSettings) (*Controller, *ManualScheduler, chan capturedRun) {
	sched := NewManualScheduler(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	runs := make(chan capturedRun, 16)
	ctrl := NewController(tuning, sched, func(ctx context.Context, inv Invocation) {
		runs <- capturedRun{inv: inv, ctx: ctx}
	})
	return ctrl, sched, runs
}

func receiveRun(t *testing.T, runs chan capturedRun) capturedRun {
	t.Helper()
	select {
	case r := <-runs:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("expected a pipeline run, got none")
		return capturedRun{}
	}
}

func expectNoRun(t *testing.T, runs chan capturedRun) {
	t.Helper()
	select {
	case r := <-runs:
		t.Fatalf("unexpected pipeline run for paragraph %d", r.inv.ParagraphIndex)
	case <-time.After(50 * time.Millisecond):
	}
}

const paragraph = "Dinner with Maya went better than I expected this time around"

func TestIgnoresShortParagraphs(t *testing.T) {
	ctrl, sched, runs := newHarness(testTuning())

	ctrl.OnParagraphEdit(0, "short")
	ctrl.OnParagraphEdit(0, "two words")
	sched.Advance(10 * time.Second)

	expectNoRun(t, runs)
}

func TestDebounceFiresOnceAfterQuiet(t *testing.T) {
	ctrl, sched, runs := newHarness(testTuning())

	ctrl.OnParagraphEdit(0, paragraph)
	sched.Advance(500 * time.Millisecond)
	expectNoRun(t, runs)

	sched.Advance(600 * time.Millisecond)
	run := receiveRun(t, runs)
	if run.inv.ParagraphIndex != 0 {
		t.Errorf("paragraph = %d, want 0", run.inv.ParagraphIndex)
	}
	if run.inv.ContentHash != HashParagraph(paragraph) {
		t.Errorf("hash mismatch")
	}
	expectNoRun(t, runs)
}

func TestDebounceResetsOnReEdit(t *testing.T) {
	ctrl, sched, runs := newHarness(testTuning())

	ctrl.OnParagraphEdit(0, paragraph)
	sched.Advance(900 * time.Millisecond)
	ctrl.OnParagraphEdit(0, paragraph+" and then some more thoughts")
	sched.Advance(900 * time.Millisecond)
	expectNoRun(t, runs)

	sched.Advance(200 * time.Millisecond)
	run := receiveRun(t, runs)
	if !strings.HasSuffix(run.inv.Text, "more thoughts") {
		t.Errorf("fired with stale text: %q", run.inv.Text)
	}
}

func TestDuplicateHashNotRequeried(t *testing.T) {
	ctrl, sched, runs := newHarness(testTuning())

	ctrl.OnParagraphEdit(0, paragraph)
	sched.Advance(2 * time.Second)
	receiveRun(t, runs)

	// Same content again, well past every gap
	sched.Advance(time.Minute)
	ctrl.OnParagraphEdit(0, paragraph)
	sched.Advance(10 * time.Second)
	expectNoRun(t, runs)

	if !ctrl.Queried(HashParagraph(paragraph)) {
		t.Error("hash not recorded as queried")
	}
}

func TestMinQueryGapDefersSecondRun(t *testing.T) {
	tuning := testTuning()
	tuning.CooldownMs = 0
	ctrl, sched, runs := newHarness(tuning)

	ctrl.OnParagraphEdit(0, paragraph)
	sched.Advance(1100 * time.Millisecond)
	receiveRun(t, runs)

	second := "A completely different paragraph about the argument with Dad yesterday"
	ctrl.OnParagraphEdit(1, second)
	sched.Advance(1100 * time.Millisecond)
	// Debounce elapsed but the 5s global gap has not
	expectNoRun(t, runs)

	sched.Advance(5 * time.Second)
	run := receiveRun(t, runs)
	if run.inv.ParagraphIndex != 1 {
		t.Errorf("paragraph = %d, want 1", run.inv.ParagraphIndex)
	}
}

func TestNewParagraphCancelsInflightRun(t *testing.T) {
	tuning := testTuning()
	tuning.MinQueryGapMs = 0
	tuning.CooldownMs = 0

	sched := NewManualScheduler(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	started := make(chan capturedRun, 2)
	release := make(chan struct{})

	ctrl := NewController(tuning, sched, func(ctx context.Context, inv Invocation) {
		started <- capturedRun{inv: inv, ctx: ctx}
		if inv.ParagraphIndex == 0 {
			<-release // keep the first run in flight
		}
	})

	ctrl.OnParagraphEdit(0, paragraph)
	sched.Advance(1100 * time.Millisecond)
	first := receiveRun(t, started)

	ctrl.OnParagraphEdit(1, "A completely different paragraph about the argument with Dad yesterday")
	sched.Advance(1100 * time.Millisecond)
	receiveRun(t, started)

	select {
	case <-first.ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight run was not cancelled by the new paragraph")
	}
	close(release)
}

func TestCooldownAfterAcceptedNudges(t *testing.T) {
	ctrl, sched, runs := newHarness(testTuning())

	ctrl.OnParagraphEdit(0, paragraph)
	sched.Advance(2 * time.Second)
	receiveRun(t, runs)

	ctrl.NoteAccepted(0, 2)

	ctrl.OnParagraphEdit(3, "A completely different paragraph about the argument with Dad yesterday")
	sched.Advance(6 * time.Second)
	// Debounce and query gap are over but the 20s cooldown holds
	expectNoRun(t, runs)

	sched.Advance(20 * time.Second)
	run := receiveRun(t, runs)
	if run.inv.ParagraphIndex != 3 {
		t.Errorf("paragraph = %d, want 3", run.inv.ParagraphIndex)
	}
}

func TestAnnotationBudgetStopsFiring(t *testing.T) {
	tuning := testTuning()
	tuning.MaxAnnotationsPer = 1
	tuning.CooldownMs = 0
	ctrl, sched, runs := newHarness(tuning)

	ctrl.OnParagraphEdit(0, paragraph)
	sched.Advance(2 * time.Second)
	receiveRun(t, runs)
	ctrl.NoteAccepted(0, 1)

	sched.Advance(time.Minute)
	ctrl.OnParagraphEdit(4, "A completely different paragraph about the argument with Dad yesterday")
	sched.Advance(10 * time.Second)
	expectNoRun(t, runs)
}

func TestAdjacentParagraphGapRespected(t *testing.T) {
	tuning := testTuning()
	tuning.CooldownMs = 0
	tuning.MinParagraphGap = 2
	ctrl, sched, runs := newHarness(tuning)

	ctrl.OnParagraphEdit(5, paragraph)
	sched.Advance(2 * time.Second)
	receiveRun(t, runs)
	ctrl.NoteAccepted(5, 1)

	sched.Advance(time.Minute)
	ctrl.OnParagraphEdit(6, "A completely different paragraph about the argument with Dad yesterday")
	sched.Advance(10 * time.Second)
	expectNoRun(t, runs)

	ctrl.OnParagraphEdit(8, "Yet another different paragraph this one about planning the weekend trip")
	sched.Advance(10 * time.Second)
	run := receiveRun(t, runs)
	if run.inv.ParagraphIndex != 8 {
		t.Errorf("paragraph = %d, want 8", run.inv.ParagraphIndex)
	}
}

func TestStaleTimerDoesNotDisarmNewerDebounce(t *testing.T) {
	ctrl, sched, runs := newHarness(testTuning())

	const newer = "A slow morning but the talk about the move finally happened"

	ctrl.OnParagraphEdit(0, paragraph)
	ctrl.OnParagraphEdit(1, newer)

	// An already-expired timer can invoke fire after a re-arm took the lock
	// first; that stale invocation must neither run nor steal the pending
	// slot from the newer timer.
	ctrl.fire(1, 0, paragraph, HashParagraph(paragraph))
	expectNoRun(t, runs)

	sched.Advance(1100 * time.Millisecond)
	run := receiveRun(t, runs)
	if run.inv.ParagraphIndex != 1 {
		t.Errorf("paragraph = %d, want 1", run.inv.ParagraphIndex)
	}
	if run.inv.ContentHash != HashParagraph(newer) {
		t.Errorf("hash mismatch")
	}
}
