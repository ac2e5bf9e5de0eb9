package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flyhigh/internal/converter"
	"github.com/dharmasatrya/flyhigh/internal/dates"
	"github.com/dharmasatrya/flyhigh/internal/models"
	"github.com/dharmasatrya/flyhigh/internal/orchestrator"
	"github.com/dharmasatrya/flyhigh/internal/querybuilder"
	"github.com/dharmasatrya/flyhigh/internal/txlog"
)

type scriptedExtractor struct {
	answers     []*models.Extraction
	err         error
	transcripts []string
}

func (e *scriptedExtractor) Extract(ctx context.Context, transcript string) (*models.Extraction, error) {
	e.transcripts = append(e.transcripts, transcript)
	if e.err != nil {
		return nil, e.err
	}
	next := e.answers[0]
	if len(e.answers) > 1 {
		e.answers = e.answers[1:]
	}
	return next, nil
}

type fakeSearcher struct {
	mu      sync.Mutex
	result  *models.SearchResult
	err     error
	queries []models.StructuredQuery
}

func (s *fakeSearcher) Search(ctx context.Context, q models.StructuredQuery) (*models.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	return s.result, s.err
}

func price(v float64) *float64 { return &v }

func completeFields() *models.ExtractedFields {
	return &models.ExtractedFields{Origin: "Glasgow", Destination: "Chennai", Dates: "next week", Passengers: 1}
}

func TestSessionAsksUntilComplete(t *testing.T) {
	extractor := &scriptedExtractor{answers: []*models.Extraction{
		{Reply: "Where would you like to fly from?"},
		{Reply: "ignored", IsComplete: true, Fields: completeFields()},
	}}
	searcher := &fakeSearcher{result: &models.SearchResult{
		Flights:       []models.Flight{{ID: "flight-0", Price: 289.5}},
		RedirectURL:   "https://www.google.com/travel/flights?q=x",
		RawContent:    "£289.50",
		CheapestPrice: price(289.5),
		Status:        models.StatusPriceOnly,
	}}
	log := txlog.NewMemoryLog(txlog.DefaultOptions())
	session := NewSession(extractor, searcher, log)
	ctx := context.Background()

	first, err := session.Send(ctx, "I want to go to Chennai next week")
	require.NoError(t, err)
	assert.False(t, first.IsComplete)
	assert.Equal(t, "Where would you like to fly from?", first.Reply)
	assert.Nil(t, first.Result)
	assert.Equal(t, StateIncomplete, session.State())
	assert.Empty(t, searcher.queries)

	second, err := session.Send(ctx, "Glasgow, just me")
	require.NoError(t, err)
	assert.True(t, second.IsComplete)
	assert.Equal(t, TransitionNotice, second.Reply)
	require.NotNil(t, second.Result)
	assert.Equal(t, "I found flights starting from £289.50. You can view and book them using the link below.", second.Summary)
	assert.Equal(t, StateComplete, session.State())

	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "Chennai", searcher.queries[0].Destination)

	assert.Equal(t, "user: I want to go to Chennai next week\nassistant: Where would you like to fly from?\nuser: Glasgow, just me", extractor.transcripts[1])

	snap := session.Snapshot()
	assert.True(t, snap.IsComplete)
	require.Len(t, snap.Turns, 5)
	assert.Equal(t, models.RoleAssistant, snap.Turns[4].Role)
	assert.Equal(t, second.Summary, snap.Turns[4].Text)

	transcripts, err := log.List(ctx, txlog.KindTranscript)
	require.NoError(t, err)
	assert.Len(t, transcripts, 2)

	searches, err := log.List(ctx, txlog.KindConversational)
	require.NoError(t, err)
	require.Len(t, searches, 1)
	assert.Equal(t, 289.5, *searches[0].Price)
}

func TestSessionCompleteIsTerminal(t *testing.T) {
	extractor := &scriptedExtractor{answers: []*models.Extraction{{IsComplete: true, Fields: completeFields()}}}
	searcher := &fakeSearcher{result: &models.SearchResult{Flights: []models.Flight{}, Status: models.StatusNoPrice}}
	session := NewSession(extractor, searcher, nil)

	resp, err := session.Send(context.Background(), "Glasgow to Chennai next week, 1 adult")
	require.NoError(t, err)
	assert.Equal(t, NoPriceNotice, resp.Summary)

	_, err = session.Send(context.Background(), "and back again?")
	assert.ErrorIs(t, err, models.ErrSessionComplete)
	assert.Len(t, searcher.queries, 1)
	assert.Len(t, extractor.transcripts, 1)
}

func TestSessionDowngradesIncompleteClaim(t *testing.T) {
	fields := completeFields()
	fields.Dates = ""
	fields.Passengers = 0
	extractor := &scriptedExtractor{answers: []*models.Extraction{{Reply: "Searching!", IsComplete: true, Fields: fields}}}
	searcher := &fakeSearcher{}
	session := NewSession(extractor, searcher, nil)

	resp, err := session.Send(context.Background(), "Glasgow to Chennai")
	require.NoError(t, err)
	assert.False(t, resp.IsComplete)
	assert.Contains(t, resp.Reply, "dates and passengers")
	assert.Equal(t, StateIncomplete, session.State())
	assert.Empty(t, searcher.queries)
}

func TestSessionExtractorError(t *testing.T) {
	upstream := errors.New("llm request failed with status 503: overloaded")
	extractor := &scriptedExtractor{err: upstream}
	session := NewSession(extractor, &fakeSearcher{}, nil)

	_, err := session.Send(context.Background(), "hello")
	require.ErrorIs(t, err, upstream)

	assert.Equal(t, StateIncomplete, session.State())
	turns := session.Snapshot().Turns
	require.Len(t, turns, 2)
	assert.Equal(t, models.RoleUser, turns[0].Role)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
	assert.Equal(t, OverloadGuidance, turns[1].Text)

	_, _ = session.Send(context.Background(), "hello")
	assert.Equal(t, "user: hello\nassistant: "+OverloadGuidance+"\nuser: hello", extractor.transcripts[1])
}

func TestSessionSearchErrorReopens(t *testing.T) {
	netErr := models.NewNetworkError("https://x", errors.New("proxy refused"))
	extractor := &scriptedExtractor{answers: []*models.Extraction{{IsComplete: true, Fields: completeFields()}}}
	searcher := &fakeSearcher{err: netErr}
	session := NewSession(extractor, searcher, nil)

	_, err := session.Send(context.Background(), "Glasgow to Chennai next week")

	var target *models.NetworkError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, StateIncomplete, session.State())

	turns := session.Snapshot().Turns
	require.Len(t, turns, 3)
	assert.Contains(t, turns[2].Text, "couldn't reach the flight provider")

	searcher.err = nil
	searcher.result = &models.SearchResult{Flights: []models.Flight{}, Status: models.StatusNoPrice}
	resp, err := session.Send(context.Background(), "please try again")
	require.NoError(t, err)
	assert.True(t, resp.IsComplete)
	assert.Len(t, searcher.queries, 2)
}

func TestSessionUnclearDateAsksAgain(t *testing.T) {
	now := func() time.Time { return time.Date(2026, time.October, 21, 12, 0, 0, 0, time.UTC) }
	builder := querybuilder.NewBuilder("https://www.google.com", dates.NewResolver(time.UTC, now))
	fetcher := &pageFetcher{body: "<p>from £412</p>"}
	searcher := orchestrator.New(builder, fetcher, converter.New(), orchestrator.Config{})

	vague := completeFields()
	vague.Dates = "sometime in spring"
	clear := completeFields()
	clear.Dates = "25 December"
	extractor := &scriptedExtractor{answers: []*models.Extraction{
		{IsComplete: true, Fields: vague},
		{IsComplete: true, Fields: clear},
	}}
	session := NewSession(extractor, searcher, nil)

	first, err := session.Send(context.Background(), "Glasgow to Chennai sometime in spring")
	require.NoError(t, err)
	assert.False(t, first.IsComplete)
	assert.Contains(t, first.Reply, `"sometime in spring"`)
	assert.Nil(t, first.Result)
	assert.Equal(t, StateIncomplete, session.State())
	assert.Zero(t, fetcher.calls)

	second, err := session.Send(context.Background(), "25 December then")
	require.NoError(t, err)
	assert.True(t, second.IsComplete)
	require.NotNil(t, second.Result)
	assert.Equal(t, "2026-12-25", second.Result.DepartureDate)
	assert.Equal(t, 412.0, *second.Result.CheapestPrice)
	assert.Equal(t, StateComplete, session.State())
}

type pageFetcher struct {
	body  string
	calls int
}

func (f *pageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.body, nil
}

func TestSessionRejectsEmptyMessage(t *testing.T) {
	extractor := &scriptedExtractor{}
	session := NewSession(extractor, &fakeSearcher{}, nil)

	_, err := session.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, models.ErrEmptyMessage)
	assert.Empty(t, extractor.transcripts)
	assert.Empty(t, session.Snapshot().Turns)
}

func TestConcurrentCompletionSearchesOnce(t *testing.T) {
	extractor := &copyingExtractor{answer: &models.Extraction{IsComplete: true, Fields: completeFields()}}
	searcher := &fakeSearcher{result: &models.SearchResult{Flights: []models.Flight{}, Status: models.StatusNoPrice}}
	session := NewSession(extractor, searcher, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = session.Send(context.Background(), "Glasgow to Chennai next week")
		}()
	}
	wg.Wait()

	assert.Len(t, searcher.queries, 1)
}

type copyingExtractor struct {
	answer *models.Extraction
}

func (e *copyingExtractor) Extract(ctx context.Context, transcript string) (*models.Extraction, error) {
	copied := *e.answer
	return &copied, nil
}
