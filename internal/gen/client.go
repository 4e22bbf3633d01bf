// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Error codes for generation failures.
const (
	CodeRequestFailed  = "GEN_REQUEST_FAILED"
	CodeBadResponse    = "GEN_BAD_RESPONSE"
	CodeEmptyModerated = "GEN_EMPTY_MODERATED"
)

// How much recent story feeds each prompt.
const (
	monsterContextChars  = 1000
	critiqueContextChars = 500
)

// Config configures the OpenAI-compatible generation client.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.openai.com/v1".
	BaseURL string
	// APIKey is sent as a bearer token.
	APIKey string
	// Model is the chat model used for text generation.
	Model string
	// ImageModel is the model used for monster art. Empty disables art
	// generation and serves the fallback image.
	ImageModel string
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	// Logger receives generation failures. Defaults to slog.Default.
	Logger *slog.Logger
}

// Client talks to an OpenAI-compatible chat completions API. Content methods
// never propagate transport failures: after retries are exhausted they log a
// warning and serve fallback content, keeping the game flowing through
// provider outages. ModerateFeedback is the exception and fails closed.
type Client struct {
	cfg    Config
	logger *slog.Logger
}

var _ Generator = (*Client)(nil)

// NewClient builds a generation client.
func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, logger: logger.With("component", "gen")}
}

// monsterStatsSchema is reflected once; the schema steers structured output.
var monsterStatsSchema = func() json.RawMessage {
	r := jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&MonsterConcept{})
	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("reflect monster schema: %v", err))
	}
	return data
}()

func (c *Client) MonsterStats(ctx context.Context, storyContext, locationName string) (MonsterConcept, error) {
	prompt := fmt.Sprintf(
		"You are the dungeon master of a collaborative storytelling game. "+
			"Based on the recent story below, invent a monster that now haunts %q. "+
			"Recent story:\n%s",
		locationName, tail(storyContext, monsterContextChars))

	raw, err := c.completeJSON(ctx, prompt, "monster_concept", monsterStatsSchema)
	if err != nil {
		c.logger.Warn("monster generation failed, using fallback", "error", err)
		return FallbackConcept(), nil
	}

	var concept MonsterConcept
	if err := json.Unmarshal(raw, &concept); err != nil || concept.Name == "" || concept.HP <= 0 {
		c.logger.Warn("monster response unusable, using fallback", "error", err)
		return FallbackConcept(), nil
	}
	if concept.Attack <= 0 {
		concept.Attack = FallbackMonsterAttack
	}
	return concept, nil
}

func (c *Client) MonsterArt(ctx context.Context, description string) (string, error) {
	if c.cfg.ImageModel == "" || strings.TrimSpace(description) == "" {
		return FallbackMonsterImageURL, nil
	}

	body := map[string]any{
		"model":  c.cfg.ImageModel,
		"prompt": "Fantasy game art, dramatic lighting, no text: " + description,
		"n":      1,
		"size":   "512x512",
	}
	var payload struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/images/generations", body, &payload); err != nil {
		c.logger.Warn("monster art failed, using fallback", "error", err)
		return FallbackMonsterImageURL, nil
	}
	if len(payload.Data) == 0 || payload.Data[0].URL == "" {
		return FallbackMonsterImageURL, nil
	}
	return payload.Data[0].URL, nil
}

func (c *Client) Critique(ctx context.Context, draft string) (string, error) {
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return "Write a little first, then ask again.", nil
	}

	prompt := "You are a kind but sharp writing editor. Give two or three sentences of " +
		"constructive feedback on this passage. Be specific and encouraging:\n" +
		tail(draft, critiqueContextChars)
	text, err := c.complete(ctx, prompt)
	if err != nil {
		c.logger.Warn("critique failed, using fallback", "error", err)
		return "Keep writing! Every word makes the story stronger.", nil
	}
	return strings.TrimSpace(text), nil
}

// ModerateFeedback asks the model for a verdict on player feedback. Unlike
// the content methods it propagates failure: when the verdict cannot be
// obtained the feedback must not be delivered.
func (c *Client) ModerateFeedback(ctx context.Context, text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, oops.Code(CodeEmptyModerated).Errorf("empty feedback text")
	}

	prompt := "You are moderating feedback between players in a friendly writing game. " +
		"Reply with exactly APPROPRIATE or INAPPROPRIATE for this message:\n" + text
	verdict, err := c.complete(ctx, prompt)
	if err != nil {
		return false, oops.Code(CodeRequestFailed).Wrapf(err, "moderation unavailable")
	}
	return strings.Contains(strings.ToUpper(verdict), "APPROPRIATE") &&
		!strings.Contains(strings.ToUpper(verdict), "INAPPROPRIATE"), nil
}

func (c *Client) InspirationWord(ctx context.Context) (string, error) {
	text, err := c.complete(ctx, "Reply with one single evocative English word that could inspire a story. Only the word.")
	if err != nil {
		c.logger.Warn("inspiration word failed, using fallback", "error", err)
		return FallbackInspirationWord, nil
	}
	if word := sanitizeWord(text); word != "" {
		return word, nil
	}
	return FallbackInspirationWord, nil
}

// HighlightSentences returns the passage with its most complex sentences
// wrapped in {{highlight}}...{{/highlight}} markers.
func (c *Client) HighlightSentences(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return HighlightEmptyMessage, nil
	}

	prompt := "Analyze the following text. Identify the most complex or structurally " +
		"interesting sentences. Return the original text, but wrap these identified " +
		"sentences with a special marker: " + HighlightOpen + "sentence" + HighlightClose + ".\n\n" +
		"Text: " + text
	reply, err := c.complete(ctx, prompt)
	if err != nil {
		c.logger.Warn("highlight failed, using fallback", "error", err)
		return HighlightUnavailableMessage, nil
	}
	return strings.TrimSpace(reply), nil
}

// complete sends a single-message chat completion and returns the text.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, map[string]any{
		"model":    c.cfg.Model,
		"messages": []map[string]string{{"role": "user", "content": prompt}},
	})
}

// completeJSON sends a chat completion with a structured-output schema and
// returns the raw JSON text.
func (c *Client) completeJSON(ctx context.Context, prompt, schemaName string, schema json.RawMessage) (json.RawMessage, error) {
	text, err := c.chat(ctx, map[string]any{
		"model":    c.cfg.Model,
		"messages": []map[string]string{{"role": "user", "content": prompt}},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   schemaName,
				"schema": schema,
				"strict": true,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

func (c *Client) chat(ctx context.Context, body map[string]any) (string, error) {
	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post(ctx, "/chat/completions", body, &payload); err != nil {
		return "", err
	}
	if len(payload.Choices) == 0 {
		return "", oops.Code(CodeBadResponse).Errorf("chat response has no choices")
	}
	return payload.Choices[0].Message.Content, nil
}

// post sends a JSON request, retrying rate limits and server errors with
// exponential backoff, and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return oops.Code(CodeRequestFailed).Wrapf(err, "marshal request")
	}

	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(requestBody))
		if err != nil {
			return oops.Code(CodeRequestFailed).Wrapf(err, "build request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

		res, err := c.cfg.HTTPClient.Do(req)
		if err != nil {
			return retry.RetryableError(oops.Code(CodeRequestFailed).Wrapf(err, "request %s", path))
		}
		defer res.Body.Close()

		if res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500 {
			io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
			return retry.RetryableError(oops.Code(CodeRequestFailed).
				With("status", res.StatusCode).
				Errorf("request %s status %d", path, res.StatusCode))
		}
		if res.StatusCode < 200 || res.StatusCode >= 300 {
			detail, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
			return oops.Code(CodeRequestFailed).
				With("status", res.StatusCode).
				Errorf("request %s status %d: %s", path, res.StatusCode, strings.TrimSpace(string(detail)))
		}

		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return oops.Code(CodeBadResponse).Wrapf(err, "decode %s response", path)
		}
		return nil
	})
}

// tail returns the last n characters of s, cutting at a rune boundary.
func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

// sanitizeWord reduces a model reply to its first word, letters only.
func sanitizeWord(reply string) string {
	fields := strings.Fields(strings.TrimSpace(reply))
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range fields[0] {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
