// Package txlog keeps a short, newest-first debugging trail of scrapes and
// conversation transcripts. It is best-effort and never a system of record.
package txlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindDirect         Kind = "direct"
	KindConversational Kind = "conversational"
	KindTranscript     Kind = "transcript"
)

func (k Kind) Valid() bool {
	switch k {
	case KindDirect, KindConversational, KindTranscript:
		return true
	}
	return false
}

type Entry struct {
	ID         string    `json:"id"`
	URL        string    `json:"url,omitempty"`
	Content    string    `json:"content,omitempty"`
	Price      *float64  `json:"price"`
	Transcript string    `json:"transcript,omitempty"`
	Truncated  bool      `json:"truncated,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type Recorder interface {
	Record(ctx context.Context, kind Kind, e Entry) error
	List(ctx context.Context, kind Kind) ([]Entry, error)
	Close() error
}

type Options struct {
	MaxEntries      int
	MaxContentBytes int
}

func DefaultOptions() Options {
	return Options{
		MaxEntries:      5,
		MaxContentBytes: 64 * 1024,
	}
}

func (o Options) normalized() Options {
	if o.MaxEntries < 1 {
		o.MaxEntries = DefaultOptions().MaxEntries
	}
	return o
}

// prepare stamps the entry and caps its content.
func (o Options) prepare(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if o.MaxContentBytes > 0 && len(e.Content) > o.MaxContentBytes {
		e.Content = truncateUTF8(e.Content, o.MaxContentBytes)
		e.Truncated = true
	}
	return e
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back off to a rune boundary.
	for n > 0 && n < len(s) && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
