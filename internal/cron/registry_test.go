package cron

import (
	"context"
	"testing"
)

type noopJob struct {
	name string
}

func (j *noopJob) Name() string                  { return j.name }
func (j *noopJob) Run(ctx context.Context) error { return nil }

func TestRegistryPreservesOrder(t *testing.T) {
	registry := NewRegistry(
		Entry{Spec: "0 */3 * * * *", Job: &noopJob{name: "first"}},
		Entry{Spec: "0 */5 * * * *", Job: &noopJob{name: "second"}},
	)
	registry.Register("0 */5 * * * *", &noopJob{name: "third"})

	entries := registry.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got := entries[i].Job.Name(); got != want {
			t.Fatalf("entry %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestRegistrySkipsNilJobs(t *testing.T) {
	registry := NewRegistry(Entry{Spec: "* * * * * *"})
	registry.Register("* * * * * *", nil)
	if len(registry.Entries()) != 0 {
		t.Fatalf("nil jobs must not register")
	}
}

func TestRegistryEntriesReturnsCopy(t *testing.T) {
	registry := NewRegistry(Entry{Spec: "* * * * * *", Job: &noopJob{name: "only"}})
	entries := registry.Entries()
	entries[0].Job = &noopJob{name: "swapped"}
	if registry.Entries()[0].Job.Name() != "only" {
		t.Fatal("mutating the returned slice must not affect the registry")
	}
}
