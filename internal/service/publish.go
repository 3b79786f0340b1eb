package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/checkpad/internal/observability"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
)

// SystemActor is stamped as the change actor until a session mechanism exists.
const SystemActor = "system"

// changePublisher emits post-commit row changes, tagged with the txid the
// mutation ran under. Publish failures are logged, not surfaced: the write is
// already durable and clients can recover via a snapshot resubscribe.
type changePublisher struct {
	publisher syncstream.Publisher
	metrics   *observability.Metrics
	logger    *zap.Logger
}

func (p changePublisher) publish(ctx context.Context, table string, op syncstream.Op, txid int64, record any) {
	event, err := syncstream.NewChangeEvent(table, op, txid, record)
	if err != nil {
		p.logger.Warn("encode change event", zap.String("table", table), zap.Error(err))
		return
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Warn("publish change event",
			zap.String("table", table), zap.Int64("txid", txid), zap.Error(err))
		return
	}
	p.metrics.RecordChangeEvent(table, string(op))
}
