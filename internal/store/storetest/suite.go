package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/store"
)

// Run exercises the retention contract against a store.Store implementation.
// makeStore must return a clean, isolated store using the default limit.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("MoodsRoundTrip", func(t *testing.T) { moodsRoundTrip(t, makeStore(t)) })
	t.Run("MoodsRetention", func(t *testing.T) { moodsRetention(t, makeStore(t)) })
	t.Run("MoodsClear", func(t *testing.T) { moodsClear(t, makeStore(t)) })
	t.Run("MoodsConcurrentAppend", func(t *testing.T) { moodsConcurrent(t, makeStore(t)) })
	t.Run("InteractionsRetention", func(t *testing.T) { interactionsRetention(t, makeStore(t)) })
}

var base = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func entry(i int) model.MoodEntry {
	return model.MoodEntry{
		Timestamp: base.Add(time.Duration(i) * time.Minute),
		Mood:      model.Moods[i%len(model.Moods)],
		Intensity: i%10 + 1,
		Notes:     fmt.Sprintf("n%d", i),
	}
}

func moodsRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()

	got, err := s.Moods().List(ctx)
	if err != nil {
		t.Fatalf("List empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("List empty: want 0 entries, got %d", len(got))
	}

	e := model.MoodEntry{
		Timestamp:  base,
		Mood:       model.MoodAnxious,
		Intensity:  7,
		Activities: []string{"work", "exercise"},
		Notes:      "deadline",
	}
	if err := s.Moods().Append(ctx, e); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Moods().Append(ctx, entry(1)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err = s.Moods().List(ctx)
	if err != nil || len(got) != 2 {
		t.Fatalf("List: n=%d err=%v", len(got), err)
	}
	r := got[0]
	if !r.Timestamp.Equal(e.Timestamp) || r.Mood != e.Mood || r.Intensity != e.Intensity || r.Notes != e.Notes {
		t.Fatalf("round trip mismatch: got %+v want %+v", r, e)
	}
	if len(r.Activities) != 2 || r.Activities[0] != "work" || r.Activities[1] != "exercise" {
		t.Fatalf("activities mismatch: %v", r.Activities)
	}
	if got[1].Notes != "n1" {
		t.Fatalf("order mismatch: second entry notes=%q", got[1].Notes)
	}
}

func moodsRetention(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i := 0; i < 150; i++ {
		if err := s.Moods().Append(ctx, entry(i)); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	got, err := s.Moods().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != model.HistoryLimit {
		t.Fatalf("want %d entries, got %d", model.HistoryLimit, len(got))
	}
	for i, e := range got {
		if want := fmt.Sprintf("n%d", i+50); e.Notes != want {
			t.Fatalf("entry %d: want %s, got %s", i, want, e.Notes)
		}
	}
}

func moodsClear(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.Moods().Append(ctx, entry(i)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := s.Moods().Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got, err := s.Moods().List(ctx); err != nil || len(got) != 0 {
		t.Fatalf("List after clear: n=%d err=%v", len(got), err)
	}
	if err := s.Moods().Clear(ctx); err != nil {
		t.Fatalf("Clear on empty log: %v", err)
	}
	if err := s.Moods().Append(ctx, entry(9)); err != nil {
		t.Fatalf("Append after clear: %v", err)
	}
	if got, err := s.Moods().List(ctx); err != nil || len(got) != 1 || got[0].Notes != "n9" {
		t.Fatalf("List after re-append: got=%v err=%v", got, err)
	}
}

func moodsConcurrent(t *testing.T, s store.Store) {
	ctx := context.Background()
	const writers, perWriter = 12, 10

	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if err := s.Moods().Append(ctx, entry(w*perWriter+i)); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Append: %v", err)
	}

	got, err := s.Moods().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != model.HistoryLimit {
		t.Fatalf("want %d entries after %d appends, got %d", model.HistoryLimit, writers*perWriter, len(got))
	}
	seen := make(map[string]bool, len(got))
	for _, e := range got {
		if seen[e.Notes] {
			t.Fatalf("duplicate entry %s", e.Notes)
		}
		seen[e.Notes] = true
	}
}

func interactionsRetention(t *testing.T, s store.Store) {
	ctx := context.Background()
	if got, err := s.Interactions().List(ctx); err != nil || len(got) != 0 {
		t.Fatalf("List empty: n=%d err=%v", len(got), err)
	}
	for i := 0; i < 105; i++ {
		in := model.Interaction{
			ID:        fmt.Sprintf("i%d", i),
			Component: "BreathingExercise",
			Helpful:   i%2 == 0,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		if i == 104 {
			in.Feedback = "slower please"
		}
		if err := s.Interactions().Append(ctx, in); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	got, err := s.Interactions().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != model.HistoryLimit {
		t.Fatalf("want %d interactions, got %d", model.HistoryLimit, len(got))
	}
	if got[0].ID != "i5" || got[len(got)-1].ID != "i104" {
		t.Fatalf("retention order: first=%s last=%s", got[0].ID, got[len(got)-1].ID)
	}
	last := got[len(got)-1]
	if last.Feedback != "slower please" || !last.Helpful || last.Component != "BreathingExercise" {
		t.Fatalf("round trip mismatch: %+v", last)
	}

	moods, err := s.Moods().List(ctx)
	if err != nil || len(moods) != 0 {
		t.Fatalf("interactions leaked into mood log: n=%d err=%v", len(moods), err)
	}
}
