package txlog

import (
	"context"
	"sync"
)

// MemoryLog is the default in-process Recorder.
type MemoryLog struct {
	mu      sync.Mutex
	opts    Options
	entries map[Kind][]Entry
}

func NewMemoryLog(opts Options) *MemoryLog {
	return &MemoryLog{
		opts:    opts.normalized(),
		entries: make(map[Kind][]Entry),
	}
}

func (m *MemoryLog) Record(ctx context.Context, kind Kind, e Entry) error {
	e = m.opts.prepare(e)

	m.mu.Lock()
	defer m.mu.Unlock()

	list := append([]Entry{e}, m.entries[kind]...)
	if len(list) > m.opts.MaxEntries {
		list = list[:m.opts.MaxEntries]
	}
	m.entries[kind] = list
	return nil
}

func (m *MemoryLog) List(ctx context.Context, kind Kind) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, len(m.entries[kind]))
	copy(out, m.entries[kind])
	return out, nil
}

func (m *MemoryLog) Close() error {
	return nil
}

// NoOpLog discards everything.
type NoOpLog struct{}

func (NoOpLog) Record(ctx context.Context, kind Kind, e Entry) error { return nil }

func (NoOpLog) List(ctx context.Context, kind Kind) ([]Entry, error) { return []Entry{}, nil }

func (NoOpLog) Close() error { return nil }
