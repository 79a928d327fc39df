package inference

import (
	"context"
	"encoding/json"
	"fmt"
)

// Classifier wraps a pretrained sentiment-classification model.
type Classifier struct {
	client *Client
	model  string
}

// NewClassifier creates a classifier backed by the given model identifier.
func NewClassifier(client *Client, model string) *Classifier {
	return &Classifier{client: client, model: model}
}

// Model returns the configured model identifier.
func (c *Classifier) Model() string { return c.model }

// Ping checks that the classification model is servable.
func (c *Classifier) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, c.model)
}

type classifyRequest struct {
	Inputs  string          `json:"inputs"`
	Options responseOptions `json:"options"`
}

type responseOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the raw top label for the given text. The caller is
// responsible for normalizing the label and for the NEUTRAL fallback on
// error; classification is best-effort enrichment, never a hard
// requirement of a response.
func (c *Classifier) Classify(ctx context.Context, text string) (string, error) {
	req := classifyRequest{
		Inputs:  text,
		Options: responseOptions{WaitForModel: true},
	}

	var raw json.RawMessage
	if err := c.client.infer(ctx, c.model, req, &raw); err != nil {
		return "", err
	}

	// Classification endpoints respond with either [[{label,score},...]]
	// or [{label,score},...] depending on server version; accept both.
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0][0].Label, nil
	}
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return flat[0].Label, nil
	}

	return "", fmt.Errorf("%w: empty classification result", ErrBadResponse)
}
