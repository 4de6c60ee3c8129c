package intent

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Pattern is a learned association between a user's normalized phrasing and
// the intent it resolved to. Rows live in the 'intent_patterns' table.
type Pattern struct {
	ID         int64
	UserID     int64
	Normalized string
	Action     Action
	Entities   map[string]string
	UseCount   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PatternRepository defines persistence for learned patterns.
type PatternRepository interface {
	FindByNormalizedText(ctx context.Context, userID int64, normalized string) (*Pattern, error)
	Save(ctx context.Context, p *Pattern) error
	IncrementUseCount(ctx context.Context, id int64) error
}

// PatternStage resolves a message against the user's learned patterns:
// phrasings the LLM has successfully parsed before. An exact match on the
// normalized text short-circuits the expensive stages behind it.
type PatternStage struct {
	repo   PatternRepository
	logger *logrus.Entry
}

func NewPatternStage(repo PatternRepository, logger *logrus.Entry) *PatternStage {
	return &PatternStage{repo: repo, logger: logger}
}

func (s *PatternStage) Name() string { return "learned_pattern" }

func (s *PatternStage) Parse(ctx context.Context, msg *Message) (*Intent, error) {
	normalized := Normalize(msg.Text)
	if normalized == "" {
		return nil, ErrNoMatch
	}

	pattern, err := s.repo.FindByNormalizedText(ctx, msg.UserID, normalized)
	if err != nil {
		// Lookup failures (including not-found) defer to the next stage.
		return nil, ErrNoMatch
	}

	// Use counting is advisory; a failed bump never blocks the match.
	if err := s.repo.IncrementUseCount(ctx, pattern.ID); err != nil {
		s.logger.WithField("pattern_id", pattern.ID).WithError(err).Warn("Failed to bump pattern use count")
	}

	entities := make(map[string]string, len(pattern.Entities))
	for k, v := range pattern.Entities {
		entities[k] = v
	}
	return &Intent{Action: pattern.Action, Confidence: 0.95, Entities: entities}, nil
}
