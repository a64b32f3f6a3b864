package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arnavshah/shift-roster-ai/pkg/models"
	"github.com/arnavshah/shift-roster-ai/pkg/prompt"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"google.golang.org/genai"
)

// DefaultModel is used when Config.Model is empty
const DefaultModel = "gemini-2.5-flash"

// ErrCommunication is the only error callers ever see. Transport, quota,
// credential and decoding failures all collapse into it.
var ErrCommunication = errors.New("failed to communicate with the scheduling AI")

var (
	errMissingCredential = errors.New("no API credential configured")
	errEmptyResponse     = errors.New("empty response from Gemini API")
	errNotAnArray        = errors.New("invalid schedule format received from API")
)

// generateFunc abstracts the Gemini call so tests can swap it out
type generateFunc func(ctx context.Context, prompt string, schema *genai.Schema) (string, error)

// Config holds the generation client settings
type Config struct {
	APIKey string
	Model  string
	// Timeout bounds a single request. Zero leaves it to the transport.
	Timeout time.Duration
}

// Client sends one prompt per generation and decodes the schedule
type Client struct {
	cfg      Config
	log      *zap.Logger
	generate generateFunc
}

// NewGeminiClient creates a client backed by the Gemini API. A missing API
// key is not an error here: every call then fails with ErrCommunication.
func NewGeminiClient(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{cfg: cfg, log: log.Named("generation")}
	if cfg.APIKey == "" {
		c.log.Warn("no Gemini API key configured, schedule generation will fail")
		c.generate = func(context.Context, string, *genai.Schema) (string, error) {
			return "", errMissingCredential
		}
		return c, nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	c.generate = func(ctx context.Context, text string, schema *genai.Schema) (string, error) {
		result, err := client.Models.GenerateContent(ctx, model, genai.Text(text), &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		})
		if err != nil {
			return "", err
		}
		if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
			return "", errEmptyResponse
		}
		var sb strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
		return sb.String(), nil
	}
	return c, nil
}

// Model returns the model name requests are sent to
func (c *Client) Model() string {
	return c.cfg.Model
}

// GenerateSchedule builds the prompt for in, performs exactly one request
// and decodes the reply. No retry is attempted.
func (c *Client) GenerateSchedule(ctx context.Context, in models.FormInput, lang language.Tag) (models.Schedule, error) {
	text := prompt.Build(in, lang)

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := c.generate(ctx, text, prompt.Schema())
	if err != nil {
		c.log.Error("schedule generation failed",
			zap.String("model", c.cfg.Model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, ErrCommunication
	}

	schedule, err := Decode(raw)
	if err != nil {
		c.log.Error("schedule response rejected",
			zap.String("model", c.cfg.Model),
			zap.Int("bytes", len(raw)),
			zap.Error(err))
		return nil, ErrCommunication
	}

	c.log.Info("schedule generated",
		zap.String("model", c.cfg.Model),
		zap.Int("days", len(schedule)),
		zap.Duration("elapsed", time.Since(start)))
	return schedule, nil
}

// Decode trims and parses a raw model reply. Only the root is checked: it
// must be a JSON array. Element contents are trusted as returned.
func Decode(raw string) (models.Schedule, error) {
	data := []byte(strings.TrimSpace(raw))

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if _, ok := root.([]any); !ok {
		return nil, errNotAnArray
	}

	schedule := models.Schedule{}
	if err := json.Unmarshal(data, &schedule); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return schedule, nil
}
