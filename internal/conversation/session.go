// Package conversation gathers flight details over several chat turns and
// triggers exactly one search once they are complete.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/flyhigh/internal/models"
	"github.com/dharmasatrya/flyhigh/internal/txlog"
	"github.com/dharmasatrya/flyhigh/pkg/currency"
)

const (
	TransitionNotice = "Great! I have all the details. Now, I'll perform a live search to find the best current prices for you. This might take a moment..."
	NoPriceNotice    = "I've performed the live search, but couldn't extract a price from the results. You can check the prices manually using the link below."
	ErrorNotice      = "Sorry, I encountered an error. Please try again."
)

type Extractor interface {
	Extract(ctx context.Context, transcript string) (*models.Extraction, error)
}

type Searcher interface {
	Search(ctx context.Context, q models.StructuredQuery) (*models.SearchResult, error)
}

type State string

const (
	StateIncomplete State = "INCOMPLETE"
	StateComplete   State = "COMPLETE"
)

type Session struct {
	mu        sync.Mutex
	id        string
	state     State
	turns     []models.Turn
	extractor Extractor
	searcher  Searcher
	recorder  txlog.Recorder
	now       func() time.Time
	// lastActive is unix nanos, readable without waiting on a running turn.
	lastActive atomic.Int64
}

func NewSession(extractor Extractor, searcher Searcher, recorder txlog.Recorder) *Session {
	if recorder == nil {
		recorder = txlog.NoOpLog{}
	}
	s := &Session{
		id:        uuid.NewString(),
		state:     StateIncomplete,
		extractor: extractor,
		searcher:  searcher,
		recorder:  recorder,
		now:       time.Now,
	}
	s.touch()
	return s
}

func (s *Session) ID() string {
	return s.id
}

// LastActive is when the session was created or last received a message.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(s.now().UnixNano())
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() models.SessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]models.Turn, len(s.turns))
	copy(turns, s.turns)
	return models.SessionResponse{
		ID:         s.id,
		IsComplete: s.state == StateComplete,
		Turns:      turns,
	}
}

// Send handles one user turn. Turns are serialised per session, so a completed
// session triggers its search exactly once.
func (s *Session) Send(ctx context.Context, text string) (*models.TurnResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.ErrEmptyMessage
	}

	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateComplete {
		return nil, models.ErrSessionComplete
	}

	s.appendTurn(models.RoleUser, text)
	transcript := Transcript(s.turns)
	s.record(ctx, txlog.KindTranscript, txlog.Entry{Transcript: transcript})

	extraction, err := Converse(ctx, s.extractor, transcript)
	if err != nil {
		s.appendTurn(models.RoleAssistant, failureNotice(err))
		return nil, err
	}

	resp := &models.TurnResponse{
		SessionID:  s.id,
		Reply:      extraction.Reply,
		IsComplete: extraction.IsComplete,
		Fields:     extraction.Fields,
	}

	if !extraction.IsComplete {
		s.appendTurn(models.RoleAssistant, extraction.Reply)
		return resp, nil
	}

	s.state = StateComplete
	resp.Reply = TransitionNotice
	s.appendTurn(models.RoleAssistant, TransitionNotice)

	q := extraction.Fields.Query()
	log.Printf("[CONVERSATION] %s complete: %s -> %s, %s, %d pax", s.id, q.Origin, q.Destination, q.Dates, q.Passengers)

	result, err := s.searcher.Search(ctx, q)
	if err != nil {
		// A failed search is not a completion; the user can correct or retry.
		s.state = StateIncomplete
		var dateErr *models.InvalidDateError
		if errors.As(err, &dateErr) {
			resp.IsComplete = false
			resp.Reply = fmt.Sprintf("I couldn't understand the date %q. Could you give me a clearer travel date, for example 25 December?", dateErr.Expression)
			s.appendTurn(models.RoleAssistant, resp.Reply)
			return resp, nil
		}
		s.appendTurn(models.RoleAssistant, failureNotice(err))
		return nil, fmt.Errorf("live search: %w", err)
	}
	s.record(ctx, txlog.KindConversational, txlog.Entry{
		URL:     result.RedirectURL,
		Content: result.RawContent,
		Price:   result.CheapestPrice,
	})

	resp.Result = result
	resp.Summary = Summarize(result)
	s.appendTurn(models.RoleAssistant, resp.Summary)
	return resp, nil
}

func (s *Session) appendTurn(role models.Role, text string) {
	s.turns = append(s.turns, models.Turn{Role: role, Text: text, At: s.now().UTC()})
}

// record is best-effort; the debug trail never fails a turn.
func (s *Session) record(ctx context.Context, kind txlog.Kind, e txlog.Entry) {
	if err := s.recorder.Record(ctx, kind, e); err != nil {
		log.Printf("[CONVERSATION] failed to record %s entry: %v", kind, err)
	}
}

// failureNotice is the assistant turn recorded when a turn fails, so a retried
// message follows an answer instead of repeating itself.
func failureNotice(err error) string {
	if guidance, ok := Guidance(err); ok {
		return guidance
	}
	var netErr *models.NetworkError
	if errors.As(err, &netErr) {
		return "Sorry, I couldn't reach the flight provider just now. Please try again later."
	}
	return ErrorNotice
}

// Summarize is the assistant's closing line for a finished search.
func Summarize(result *models.SearchResult) string {
	if result == nil || result.CheapestPrice == nil {
		return NoPriceNotice
	}
	return fmt.Sprintf("I found flights starting from %s. You can view and book them using the link below.", currency.FormatGBP(*result.CheapestPrice))
}
