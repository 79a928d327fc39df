package inference

import (
	"context"
	"fmt"
	"strings"
)

// Summarizer wraps a pretrained abstractive-summarization model.
type Summarizer struct {
	client *Client
	model  string
}

// NewSummarizer creates a summarizer backed by the given model identifier.
func NewSummarizer(client *Client, model string) *Summarizer {
	return &Summarizer{client: client, model: model}
}

// Model returns the configured model identifier.
func (s *Summarizer) Model() string { return s.model }

// Ping checks that the summarization model is servable.
func (s *Summarizer) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, s.model)
}

type summarizeRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters summarizeParameters `json:"parameters"`
	Options    responseOptions     `json:"options"`
}

type summarizeParameters struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

type summaryResult struct {
	SummaryText string `json:"summary_text"`
}

// Summarize generates an abstractive summary of the text between minLen
// and maxLen tokens. Sampling is disabled so repeated calls on identical
// input produce identical output.
func (s *Summarizer) Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error) {
	req := summarizeRequest{
		Inputs: text,
		Parameters: summarizeParameters{
			MinLength: minLen,
			MaxLength: maxLen,
			DoSample:  false,
		},
		Options: responseOptions{WaitForModel: true},
	}

	var results []summaryResult
	if err := s.client.infer(ctx, s.model, req, &results); err != nil {
		return "", err
	}
	if len(results) == 0 || strings.TrimSpace(results[0].SummaryText) == "" {
		return "", fmt.Errorf("%w: empty summary result", ErrBadResponse)
	}
	return strings.TrimSpace(results[0].SummaryText), nil
}
