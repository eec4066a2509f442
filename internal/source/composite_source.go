package source

import (
	"context"
	"time"

	"github.com/username/skema-widget/internal/auth"
	"github.com/username/skema-widget/internal/schedule"
	"go.uber.org/zap"
)

// CompositeSource implements Source with fallback strategy
// Primary: HTTPSource (scraper service)
// Fallback: FileSource (local export)
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// FetchWeek tries primary first, then fallback
func (cs *CompositeSource) FetchWeek(ctx context.Context, session auth.Session, date time.Time) ([]schedule.Day, error) {
	days, err := cs.primary.FetchWeek(ctx, session, date)
	if err == nil {
		return days, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	cs.logger.Warn("Primary source failed, falling back",
		zap.Time("date", date),
		zap.Error(err))

	return cs.fallback.FetchWeek(ctx, session, date)
}
