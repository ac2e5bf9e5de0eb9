package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flyhigh/internal/config"
)

type capturedRequest struct {
	auth string
	body chatCompletionRequest
}

// newModelServer answers every chat completion with content.
func newModelServer(t *testing.T, status int, content string) (*httptest.Server, chan capturedRequest) {
	t.Helper()
	seen := make(chan capturedRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		select {
		case seen <- capturedRequest{auth: r.Header.Get("Authorization"), body: req}:
		default:
		}

		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(content))
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func newTestClient(baseURL string) *Client {
	c := NewClient(config.LLMConfig{
		APIKey:  "test-key",
		APIBase: baseURL + "/",
		Model:   "test-model",
		Timeout: 5 * time.Second,
		Enabled: true,
	}, "Glasgow")
	c.now = func() time.Time { return time.Date(2026, time.October, 21, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestExtractComplete(t *testing.T) {
	srv, seen := newModelServer(t, http.StatusOK, `{"reply":"Searching now.","isFlightDetailsComplete":true,"flightDetails":{"origin":"Glasgow","destination":"Chennai","dates":"next week","passengers":2}}`)
	c := newTestClient(srv.URL)

	got, err := c.Extract(context.Background(), "user: Glasgow to Chennai next week for two")
	require.NoError(t, err)

	assert.True(t, got.IsComplete)
	assert.Equal(t, "Searching now.", got.Reply)
	require.NotNil(t, got.Fields)
	assert.Equal(t, "Chennai", got.Fields.Destination)
	assert.Equal(t, 2, got.Fields.Passengers)
	assert.Empty(t, got.Fields.Missing())

	req := <-seen
	assert.Equal(t, "Bearer test-key", req.auth)
	assert.Equal(t, "test-model", req.body.Model)
	require.NotNil(t, req.body.ResponseFormat)
	assert.Equal(t, "json_object", req.body.ResponseFormat.Type)
	require.Len(t, req.body.Messages, 2)
	assert.Contains(t, req.body.Messages[1].Content, "Glasgow to Chennai")
}

func TestExtractIncompleteWithoutDetails(t *testing.T) {
	srv, _ := newModelServer(t, http.StatusOK, `{"reply":"Where are you flying from?","isFlightDetailsComplete":false}`)
	c := newTestClient(srv.URL)

	got, err := c.Extract(context.Background(), "user: I want to go to Paris")
	require.NoError(t, err)
	assert.False(t, got.IsComplete)
	assert.Nil(t, got.Fields)
	assert.Equal(t, "Where are you flying from?", got.Reply)
}

func TestParseExtractionTolerant(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"fenced", "```json\n{\"reply\":\"ok\",\"isFlightDetailsComplete\":false}\n```"},
		{"prose", "Here you go: {\"reply\":\"ok\",\"isFlightDetailsComplete\":false} hope that helps"},
		{"bom", "\ufeff{\"reply\":\"ok\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExtraction(tt.output)
			require.NoError(t, err)
			assert.Equal(t, "ok", got.Reply)
		})
	}
}

func TestParseExtractionShapeErrors(t *testing.T) {
	tests := []struct {
		name   string
		output string
		field  string
	}{
		{"passengers as text", `{"reply":"x","flightDetails":{"passengers":"two"}}`, "passengers"},
		{"fractional passengers", `{"reply":"x","flightDetails":{"passengers":2.5}}`, "passengers"},
		{"zero passengers", `{"reply":"x","flightDetails":{"passengers":0}}`, "passengers"},
		{"numeric origin", `{"reply":"x","flightDetails":{"origin":42}}`, "origin"},
		{"complete flag as text", `{"reply":"x","isFlightDetailsComplete":"yes"}`, "isFlightDetailsComplete"},
		{"details not an object", `{"reply":"x","flightDetails":"Paris"}`, "flightDetails"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseExtraction(tt.output)
			var shapeErr *ShapeError
			require.True(t, errors.As(err, &shapeErr), "got %v", err)
			assert.Equal(t, tt.field, shapeErr.Field)
		})
	}
}

func TestParseExtractionGarbage(t *testing.T) {
	_, err := parseExtraction("I'm sorry, I can't help with that.")
	require.Error(t, err)

	_, err = parseExtraction("   ")
	require.Error(t, err)
}

func TestParseQueryAppliesDefaults(t *testing.T) {
	srv, seen := newModelServer(t, http.StatusOK, `{"destination":"Chennai"}`)
	c := newTestClient(srv.URL)

	q, err := c.ParseQuery(context.Background(), "flights to Chennai")
	require.NoError(t, err)

	assert.Equal(t, "Glasgow", q.Origin)
	assert.Equal(t, "Chennai", q.Destination)
	assert.Equal(t, "next week", q.Dates)
	assert.Equal(t, 1, q.Passengers)

	req := <-seen
	assert.Contains(t, req.body.Messages[0].Content, "2026-10-21")
	assert.Contains(t, req.body.Messages[0].Content, `origin "Glasgow"`)
}

func TestParseQueryKeepsGivenValues(t *testing.T) {
	srv, _ := newModelServer(t, http.StatusOK, `{"origin":"London","destination":"Paris","dates":"25/12/2026","passengers":3,"flightClass":"business"}`)
	c := newTestClient(srv.URL)

	q, err := c.ParseQuery(context.Background(), "3 business seats London to Paris on 25/12/2026")
	require.NoError(t, err)
	assert.Equal(t, "London", q.Origin)
	assert.Equal(t, "25/12/2026", q.Dates)
	assert.Equal(t, 3, q.Passengers)
	assert.Equal(t, "business", q.FlightClass)
}

func TestAPIErrorCarriesStatus(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		srv, _ := newModelServer(t, status, `{"error":"slow down"}`)
		c := newTestClient(srv.URL)

		_, err := c.Extract(context.Background(), "user: hi")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, status, apiErr.StatusCode)
		assert.Contains(t, err.Error(), strconv.Itoa(status))
		assert.Contains(t, err.Error(), apiErr.Body)
	}
}

func TestDisabledClient(t *testing.T) {
	c := NewClient(config.LLMConfig{}, "Glasgow")
	assert.False(t, c.IsEnabled())

	_, err := c.Extract(context.Background(), "user: hi")
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = c.ParseQuery(context.Background(), "flights to Rome")
	assert.ErrorIs(t, err, ErrDisabled)
}
