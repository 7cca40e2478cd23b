package harness

import (
	"context"
	"time"
)

// pacer gates ticks: immediately in batch mode, on a ticker in realtime mode.
type pacer struct {
	ticker *time.Ticker
}

func newPacer(cfg Config) *pacer {
	if !cfg.Realtime {
		return &pacer{}
	}
	return &pacer{ticker: time.NewTicker(cfg.Period())}
}

func (p *pacer) wait(ctx context.Context) error {
	if p.ticker == nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ticker.C:
		return nil
	}
}

func (p *pacer) stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}
