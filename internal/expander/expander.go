// Package expander turns a free-text request into a KeywordBundle by asking
// a chat model for structured search signals, degrading to deterministic
// token splitting when the model is unavailable or returns garbage.
package expander

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/hyperjump/kode/internal/models"
	"github.com/hyperjump/kode/internal/rules"
	"github.com/hyperjump/kode/pkg/utils"
)

const systemPrompt = `You are a fashion shopping assistant. Read the user's message and extract
search signals for a clothing catalog. Respond with a single JSON object and
nothing else, using exactly these fields:
{
  "keywords": ["free-form search words, most relevant first"],
  "colors": ["color names mentioned or implied"],
  "occasions": ["occasion tags such as party, work, wedding, vacation, sport, date"],
  "styles": ["style tags such as casual, elegant, sporty, formal"],
  "categories": ["clothing categories: top, bottom, dress, outerwear"],
  "materials": ["materials such as cotton, silk, denim"],
  "mood": "a short phrase capturing the mood of the request"
}
Leave fields as empty arrays or an empty string when the message gives no
signal. Do not add explanations or extra text.`

// Expander expands user messages into keyword bundles.
type Expander struct {
	chatModel  model.BaseChatModel
	rules      *rules.Rules
	timeout    time.Duration
	maxRetries int
	logger     *zap.Logger
}

// New creates an Expander. chatModel may be nil, in which case every call
// uses the fallback bundle.
func New(chatModel model.BaseChatModel, r *rules.Rules, timeout time.Duration, maxRetries int, logger *zap.Logger) *Expander {
	if r == nil {
		r = rules.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Expander{
		chatModel:  chatModel,
		rules:      r,
		timeout:    timeout,
		maxRetries: maxRetries,
		logger:     utils.LoggerOrNop(logger),
	}
}

// Expand returns a KeywordBundle for the message. It never returns an error:
// model failures, timeouts, and unparsable output all degrade to the
// deterministic fallback bundle.
func (e *Expander) Expand(ctx context.Context, message string) *models.KeywordBundle {
	if e.chatModel == nil {
		return e.fallback(message)
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(message),
	}

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		reply, err := e.chatModel.Generate(callCtx, messages)
		cancel()
		if err != nil {
			e.logger.Warn("keyword expansion call failed",
				zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		bundle, err := parseBundle(reply.Content)
		if err != nil {
			e.logger.Warn("keyword expansion returned unparsable output",
				zap.Int("attempt", attempt),
				zap.String("content", utils.Truncate(reply.Content, 200)),
				zap.Error(err))
			continue
		}
		return bundle
	}

	e.logger.Info("keyword expansion degraded to token splitting")
	return e.fallback(message)
}

// wireBundle mirrors the JSON shape the model is asked for. Malformed or
// absent fields decode to empty values, never to an error.
type wireBundle struct {
	Keywords   []string `json:"keywords"`
	Colors     []string `json:"colors"`
	Occasions  []string `json:"occasions"`
	Styles     []string `json:"styles"`
	Categories []string `json:"categories"`
	Materials  []string `json:"materials"`
	Mood       string   `json:"mood"`
}

// parseBundle extracts the first JSON object from raw, tolerating prose
// around it, and decodes it into a bundle.
func parseBundle(raw string) (*models.KeywordBundle, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var wire wireBundle
	if err := json.Unmarshal([]byte(raw[start:end+1]), &wire); err != nil {
		return nil, fmt.Errorf("unmarshal bundle: %w", err)
	}

	return &models.KeywordBundle{
		Keywords:   cleanList(wire.Keywords),
		Colors:     cleanList(wire.Colors),
		Occasions:  cleanList(wire.Occasions),
		Styles:     cleanList(wire.Styles),
		Categories: cleanList(wire.Categories),
		Materials:  cleanList(wire.Materials),
		Mood:       strings.TrimSpace(wire.Mood),
	}, nil
}

func cleanList(values []string) []string {
	clean := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			clean = append(clean, v)
		}
	}
	return clean
}

// fallback builds a deterministic bundle from the raw message: lower-cased
// tokens become keywords; no colors, occasions, or styles are inferred. A
// mood phrase is derived from known occasion trigger words so that titles
// and rationales still read naturally; it carries no matching weight.
func (e *Expander) fallback(message string) *models.KeywordBundle {
	bundle := &models.KeywordBundle{
		Keywords: utils.Tokenize(message),
		Fallback: true,
	}
	for _, token := range bundle.Keywords {
		if occasion := e.rules.OccasionFor(token); occasion != "" {
			bundle.Mood = occasion
			break
		}
	}
	return bundle
}
