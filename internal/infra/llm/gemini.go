// Package llm is the last parser stage: a Gemini call constrained to emit
// a single JSON intent object. Model failures of every kind degrade to a
// parse miss, never to an error surfaced to the user.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"finance_assistant_bot/internal/domain/intent"
	"finance_assistant_bot/internal/infra/semcache"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

type Parser struct {
	client *genai.Client
	model  string
	cache  *semcache.Cache // Optional; filled on successful parses
	logger *logrus.Entry
}

func NewParser(ctx context.Context, apiKey, model string, cache *semcache.Cache, logger *logrus.Entry) (*Parser, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Parser{client: client, model: model, cache: cache, logger: logger}, nil
}

func (p *Parser) Name() string { return "llm" }

type modelIntent struct {
	Action     string            `json:"action"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities"`
}

func (p *Parser) Parse(ctx context.Context, msg *intent.Message) (*intent.Intent, error) {
	prompt := buildPrompt(msg)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		p.logger.WithField("user_id", msg.UserID).WithError(err).Warn("LLM parse call failed")
		return nil, intent.ErrNoMatch
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, intent.ErrNoMatch
	}

	clean := cleanModelJSON(rawText)
	var out modelIntent
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		p.logger.WithField("raw", rawText).WithError(err).Warn("LLM returned unparseable intent JSON")
		return nil, intent.ErrNoMatch
	}

	action := intent.Action(out.Action)
	if !intent.KnownActions[action] {
		return nil, intent.ErrNoMatch
	}
	if out.Entities == nil {
		out.Entities = map[string]string{}
	}

	resolved := &intent.Intent{Action: action, Confidence: out.Confidence, Entities: out.Entities}
	if p.cache != nil {
		p.cache.Put(msg.Text, resolved)
	}
	return resolved, nil
}

func buildPrompt(msg *intent.Message) string {
	var b strings.Builder
	b.WriteString("You are the intent parser of a personal finance chat assistant.\n")
	b.WriteString("Convert the user message into a single JSON object:\n")
	b.WriteString(`{"action": "<action>", "confidence": <0..1>, "entities": {<string keys and values>}}` + "\n\n")

	b.WriteString("Allowed actions:\n")
	for action := range intent.KnownActions {
		b.WriteString("- " + string(action) + "\n")
	}
	b.WriteString("\nEntity keys, when present: amount (decimal, dot separator), description, category, payment_method, installments, day_of_month, transaction_id, locale, name.\n")
	b.WriteString("Message locale: " + msg.Locale + ". Amounts may use Brazilian formatting (54,90).\n")
	b.WriteString("If the message is not a finance request, use action \"unknown\".\n\n")
	b.WriteString("Return ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Do NOT use ```json or any Markdown.\n\n")
	b.WriteString("User message: " + msg.Text + "\n")
	return b.String()
}

// cleanModelJSON strips Markdown fences and surrounding junk if the model
// ignored the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
