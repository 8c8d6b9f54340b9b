package trigger

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
	"sync"
	"time"

	"spark-journal-be/pkg/spark"
)

// Invocation is one accepted paragraph event handed to the pipeline runner.
type Invocation struct {
	ParagraphIndex int
	Text           string
	ContentHash    string
}

// Runner executes one pipeline run. It must honor ctx cancellation; the
// controller cancels it when a different paragraph qualifies mid-run.
type Runner func(ctx context.Context, inv Invocation)

// Controller paces pipeline runs for one editing session: debounce, content
// hash dedup, global query gap, cooldown after surfaced nudges, and
// single-flight with cooperative cancellation. One instance per session;
// all state is owned here, nothing process-wide.
type Controller struct {
	mu     sync.Mutex
	tuning spark.TuningSettings
	sched  Scheduler
	run    Runner

	queriedHashes map[string]bool
	lastRunStart  time.Time
	ranOnce       bool
	cooldownUntil time.Time

	annotations      int
	lastAnnotatedIdx int
	hasAnnotated     bool

	// pendingGen identifies the latest armed timer; a fire carrying a stale
	// generation lost the race to a newer arm and must not run or clear it.
	pendingGen    uint64
	pendingCancel func()

	inflightIdx    int
	inflightCancel context.CancelFunc
}

func NewController(tuning spark.TuningSettings, sched Scheduler, run Runner) *Controller {
	return &Controller{
		tuning:        tuning,
		sched:         sched,
		run:           run,
		queriedHashes: make(map[string]bool),
	}
}

// HashParagraph is the dedup key: md5 over trimmed text, so cosmetic
// whitespace edits never re-query.
func HashParagraph(text string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(strings.TrimSpace(text))))
}

// OnParagraphEdit feeds one editor event into the controller. Non-qualifying
// events are dropped silently; qualifying ones (re)arm the debounce timer
// for that paragraph.
func (c *Controller) OnParagraphEdit(index int, text string) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < c.tuning.MinParagraphLength {
		return
	}
	if len(strings.Fields(trimmed)) < c.tuning.MinParagraphWords {
		return
	}

	hash := HashParagraph(trimmed)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queriedHashes[hash] {
		return
	}

	// Any newer qualifying edit supersedes the pending debounce, same
	// paragraph or not.
	if c.pendingCancel != nil {
		c.pendingCancel()
		c.pendingCancel = nil
	}

	c.pendingGen++
	gen := c.pendingGen
	debounce := time.Duration(c.tuning.DebounceMs) * time.Millisecond
	c.pendingCancel = c.sched.AfterFunc(debounce, func() {
		c.fire(gen, index, trimmed, hash)
	})
}

// fire runs after the debounce settles. It re-checks pacing rules at fire
// time, defers if the global query gap has not elapsed, and launches the
// pipeline run synchronously on the timer goroutine.
func (c *Controller) fire(gen uint64, index int, text, hash string) {
	c.mu.Lock()

	// A newer edit re-armed the debounce after this timer fired but before
	// it took the lock; that arm owns the pending slot now.
	if gen != c.pendingGen {
		c.mu.Unlock()
		return
	}
	c.pendingCancel = nil

	if c.queriedHashes[hash] {
		c.mu.Unlock()
		return
	}

	if c.annotations >= c.tuning.MaxAnnotationsPer {
		c.mu.Unlock()
		return
	}

	if c.hasAnnotated && abs(index-c.lastAnnotatedIdx) < c.tuning.MinParagraphGap {
		c.mu.Unlock()
		return
	}

	now := c.sched.Now()

	if now.Before(c.cooldownUntil) {
		c.deferFire(c.cooldownUntil.Sub(now), index, text, hash)
		c.mu.Unlock()
		return
	}

	gap := time.Duration(c.tuning.MinQueryGapMs) * time.Millisecond
	if c.ranOnce {
		if elapsed := now.Sub(c.lastRunStart); elapsed < gap {
			c.deferFire(gap-elapsed, index, text, hash)
			c.mu.Unlock()
			return
		}
	}

	// Single-flight: a new paragraph cancels the previous run's network calls
	if c.inflightCancel != nil && c.inflightIdx != index {
		c.inflightCancel()
	}

	c.queriedHashes[hash] = true
	c.lastRunStart = now
	c.ranOnce = true

	ctx, cancel := context.WithCancel(context.Background())
	c.inflightIdx = index
	c.inflightCancel = cancel

	c.mu.Unlock()

	go func() {
		c.run(ctx, Invocation{
			ParagraphIndex: index,
			Text:           text,
			ContentHash:    hash,
		})

		// Release the context once the run finished and was not superseded
		c.mu.Lock()
		if c.inflightCancel != nil && c.inflightIdx == index {
			c.inflightCancel()
			c.inflightCancel = nil
		}
		c.mu.Unlock()
	}()
}

func (c *Controller) deferFire(wait time.Duration, index int, text, hash string) {
	c.pendingGen++
	gen := c.pendingGen
	c.pendingCancel = c.sched.AfterFunc(wait, func() {
		c.fire(gen, index, text, hash)
	})
}

// NoteAccepted records that a run surfaced nudges on a paragraph, arming the
// cooldown and the per-entry annotation budget.
func (c *Controller) NoteAccepted(paragraphIndex, count int) {
	if count <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.annotations += count
	c.lastAnnotatedIdx = paragraphIndex
	c.hasAnnotated = true
	c.cooldownUntil = c.sched.Now().Add(time.Duration(c.tuning.CooldownMs) * time.Millisecond)
}

// Queried reports whether this session already ran the pipeline for the
// given content hash.
func (c *Controller) Queried(hash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queriedHashes[hash]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
