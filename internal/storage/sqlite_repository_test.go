package storage

import (
	"context"
	"testing"
	"time"
)

// testContext mirrors testing.T.Context (Go 1.24+) for older toolchains.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenMemory(testContext(t))
	if err != nil {
		t.Fatalf("open memory repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestActivityAppendAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := testContext(t)
	at := parseRFC3339(t, "2024-03-10T12:00:00Z")

	id, err := repo.AppendActivity(ctx, Activity{
		Seq:      1,
		Kind:     "task_added",
		TaskID:   "task-1",
		ColumnID: "todo",
		Detail:   "Write report",
		At:       at,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.GetActivity(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Seq != 1 || got.Kind != "task_added" || got.TaskID != "task-1" || got.ColumnID != "todo" || got.Detail != "Write report" {
		t.Fatalf("unexpected activity: %#v", got)
	}
	if !got.At.Equal(at) {
		t.Fatalf("unexpected time: %s", got.At)
	}

	if _, err := repo.GetActivity(ctx, id+100); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActivityListNewestFirstWithFilters(t *testing.T) {
	repo := setupRepo(t)
	ctx := testContext(t)
	at := parseRFC3339(t, "2024-03-10T12:00:00Z")

	entries := []Activity{
		{Seq: 1, Kind: "task_added", TaskID: "a", At: at},
		{Seq: 2, Kind: "task_moved", TaskID: "a", At: at.Add(time.Minute)},
		{Seq: 3, Kind: "task_added", TaskID: "b", At: at.Add(2 * time.Minute)},
		{Seq: 4, Kind: "search_changed", Detail: "x", At: at.Add(3 * time.Minute)},
	}
	for _, e := range entries {
		if _, err := repo.AppendActivity(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.ListActivity(ctx, ActivityListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 || all[0].Seq != 4 || all[3].Seq != 1 {
		t.Fatalf("unexpected order: %#v", all)
	}

	added, err := repo.ListActivity(ctx, ActivityListFilter{Kind: "task_added"})
	if err != nil {
		t.Fatalf("list by kind: %v", err)
	}
	if len(added) != 2 || added[0].TaskID != "b" {
		t.Fatalf("unexpected kind filter result: %#v", added)
	}

	forA, err := repo.ListActivity(ctx, ActivityListFilter{TaskID: "a", Limit: 1})
	if err != nil {
		t.Fatalf("list by task: %v", err)
	}
	if len(forA) != 1 || forA[0].Kind != "task_moved" {
		t.Fatalf("unexpected task filter result: %#v", forA)
	}

	paged, err := repo.ListActivity(ctx, ActivityListFilter{Offset: 3})
	if err != nil {
		t.Fatalf("list with offset only: %v", err)
	}
	if len(paged) != 1 || paged[0].Seq != 1 {
		t.Fatalf("unexpected offset result: %#v", paged)
	}
}

func TestActivityCountAndPrune(t *testing.T) {
	repo := setupRepo(t)
	ctx := testContext(t)
	at := parseRFC3339(t, "2024-03-10T12:00:00Z")
	for i := 1; i <= 5; i++ {
		if _, err := repo.AppendActivity(ctx, Activity{Seq: uint64(i), Kind: "search_changed", At: at}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	removed, err := repo.PruneActivity(ctx, 2)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	n, err := repo.CountActivity(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 remaining, got %d", n)
	}
	left, _ := repo.ListActivity(ctx, ActivityListFilter{})
	if left[0].Seq != 5 || left[1].Seq != 4 {
		t.Fatalf("expected newest entries kept, got %#v", left)
	}

	if removed, err := repo.PruneActivity(ctx, 0); err != nil || removed != 0 {
		t.Fatalf("expected disabled prune, got %d %v", removed, err)
	}
}

func TestRepositoriesAreIsolated(t *testing.T) {
	first := setupRepo(t)
	second := setupRepo(t)
	ctx := testContext(t)
	if _, err := first.AppendActivity(ctx, Activity{Seq: 1, Kind: "task_added", At: time.Now()}); err != nil {
		t.Fatalf("append: %v", err)
	}
	n, err := second.CountActivity(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected isolated in-memory databases, second has %d rows", n)
	}
}
