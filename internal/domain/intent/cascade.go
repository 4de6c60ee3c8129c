package intent

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// ErrNoMatch is returned by a Stage that has nothing confident to say about
// a message, deferring to the next stage in the cascade.
var ErrNoMatch = errors.New("no intent match")

// Stage is one strategy in the parser cascade. Cheaper and more precise
// stages run before expensive fallbacks.
type Stage interface {
	Name() string
	Parse(ctx context.Context, msg *Message) (*Intent, error)
}

// Cascade tries stages in fixed priority order. The first stage returning
// an intent wins and its output is tagged with the stage name. A stage is
// never retried; a stage error other than ErrNoMatch is logged and treated
// as a miss. When every stage misses, the result is ActionUnknown.
type Cascade struct {
	stages []Stage
	logger *logrus.Entry
}

func NewCascade(logger *logrus.Entry, stages ...Stage) *Cascade {
	return &Cascade{stages: stages, logger: logger}
}

// Resolve never fails: parse failures of every kind collapse to an unknown
// intent rather than an error.
func (c *Cascade) Resolve(ctx context.Context, msg *Message) *Intent {
	for _, stage := range c.stages {
		parsed, err := stage.Parse(ctx, msg)
		if err != nil {
			if !errors.Is(err, ErrNoMatch) {
				c.logger.WithFields(logrus.Fields{
					"stage":   stage.Name(),
					"user_id": msg.UserID,
				}).WithError(err).Warn("Parser stage failed, falling through")
			}
			continue
		}
		if parsed == nil || parsed.Action == ActionUnknown {
			continue
		}
		parsed.Strategy = stage.Name()
		c.logger.WithFields(logrus.Fields{
			"stage":      stage.Name(),
			"action":     parsed.Action,
			"confidence": parsed.Confidence,
			"user_id":    msg.UserID,
		}).Debug("Intent resolved")
		return parsed
	}

	c.logger.WithField("user_id", msg.UserID).Debug("No stage matched, returning unknown intent")
	return &Intent{Action: ActionUnknown, Confidence: 0, Entities: map[string]string{}, Strategy: "none"}
}
