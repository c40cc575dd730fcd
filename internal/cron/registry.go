package cron

import "context"

// Job represents a scheduled task that runs inside the scheduler worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Entry pairs a job with the six-field cron expression that drives it.
type Entry struct {
	Spec string
	Job  Job
}

// Registry tracks scheduled entries in registration order.
type Registry struct {
	entries []Entry
}

// NewRegistry builds a registry preloaded with the provided entries.
func NewRegistry(entries ...Entry) *Registry {
	registry := &Registry{}
	for _, entry := range entries {
		registry.Register(entry.Spec, entry.Job)
	}
	return registry
}

// Register adds a job under the given cron expression. The expression is
// validated when the scheduler starts, not here.
func (r *Registry) Register(spec string, job Job) {
	if job == nil {
		return
	}
	r.entries = append(r.entries, Entry{Spec: spec, Job: job})
}

// Entries returns the registered entries in the order they were added.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}
