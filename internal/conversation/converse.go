package conversation

import (
	"context"
	"errors"
	"strings"

	"github.com/dharmasatrya/flyhigh/internal/models"
)

// Transcript renders turns as "role: text" lines, oldest first.
func Transcript(turns []models.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, string(t.Role)+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

// Converse runs one extraction over a whole transcript without keeping state.
// A collaborator that claims completeness with unusable fields is downgraded to
// incomplete and the reply asks for what is missing.
func Converse(ctx context.Context, extractor Extractor, transcript string) (*models.Extraction, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, models.ErrEmptyTranscript
	}

	extraction, err := extractor.Extract(ctx, transcript)
	if err != nil {
		return nil, err
	}
	if extraction == nil {
		return nil, errors.New("extractor returned no answer")
	}

	if !extraction.IsComplete {
		return extraction, nil
	}

	if missing := extraction.Fields.Missing(); len(missing) > 0 {
		extraction.IsComplete = false
		extraction.Reply = askFor(missing)
		return extraction, nil
	}

	q := extraction.Fields.Query()
	if err := q.Validate(); err != nil {
		extraction.IsComplete = false
		extraction.Reply = "Sorry, I didn't quite get that: " + err.Error() + ". Could you tell me again?"
	}
	return extraction, nil
}

func askFor(missing []string) string {
	var list string
	switch len(missing) {
	case 1:
		list = missing[0]
	default:
		list = strings.Join(missing[:len(missing)-1], ", ") + " and " + missing[len(missing)-1]
	}
	return "I still need a few details before I can search. Could you tell me the " + list + "?"
}
