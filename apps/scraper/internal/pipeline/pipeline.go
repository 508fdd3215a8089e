package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/extract"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/gateway"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/model"
)

// OutcomeSkipped is reported for notices the extractor does not model.
const OutcomeSkipped gateway.Outcome = "skipped"

// Pipeline runs one notice through extraction and persistence.
type Pipeline struct {
	extractor *extract.Extractor
	gateway   *gateway.Gateway
	logger    *zap.Logger
}

func NewPipeline(extractor *extract.Extractor, gateway *gateway.Gateway, logger *zap.Logger) *Pipeline {
	return &Pipeline{extractor: extractor, gateway: gateway, logger: logger}
}

func (p *Pipeline) Process(ctx context.Context, notice model.Notice) (gateway.Outcome, error) {
	tx, ok := p.extractor.Extract(notice.Description, notice.Timestamp, notice.MessageID)
	if !ok {
		return OutcomeSkipped, nil
	}

	return p.gateway.Insert(ctx, tx)
}

// HandleNotice processes the notice and returns only store failures, which
// callers log before moving on to the next notice.
func (p *Pipeline) HandleNotice(ctx context.Context, notice model.Notice) error {
	outcome, err := p.Process(ctx, notice)
	p.logger.Debug("Processed notice",
		zap.Int64("message_id", notice.MessageID),
		zap.String("outcome", string(outcome)))
	return err
}
