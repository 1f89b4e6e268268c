// Package oracle answers yes/no questions about words by asking the Gemini
// API. Failures never surface to the game: a question that cannot be answered
// is treated as "no".
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash-lite:generateContent"

type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     zerolog.Logger
}

func NewClient(apiKey string, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: time.Second * 10},
		endpoint:   defaultEndpoint,
		apiKey:     apiKey,
		logger:     logger,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Judge asks the model a yes/no question and returns true only for an
// affirmative answer. Any failure — missing key, transport error, bad status,
// unparsable body — yields false.
func (c *Client) Judge(ctx context.Context, question string) bool {
	if c.apiKey == "" {
		c.logger.Warn().Msg("gemini api key not configured, answering no")
		return false
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: question}}}},
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to encode gemini request")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to build gemini request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("gemini request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().Int("status", resp.StatusCode).Msg("gemini returned non-success status")
		return false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to read gemini response")
		return false
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		c.logger.Error().Err(err).Msg("failed to decode gemini response")
		return false
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		c.logger.Warn().Msg("gemini response carried no candidates")
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text))
	return answer == "はい" || answer == "yes"
}
