package meter

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/observability"
	"retardio-meter/internal/solana"
)

// DefaultDebounce groups notifications of one burst into a single re-score.
const DefaultDebounce = 2 * time.Second

// ErrSubscriptionClosed is returned when the notification stream ends.
var ErrSubscriptionClosed = errors.New("log subscription closed")

// WatchFunc receives the outcome of every re-score.
type WatchFunc func(*domain.ScoreRecord, error)

// Watcher re-scores a wallet whenever a transaction mentions it.
type Watcher struct {
	scorer   Scorer
	ws       solana.WSClient
	debounce time.Duration
	log      zerolog.Logger
}

// WatcherOption configures Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period after the last notification.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(l zerolog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = l
	}
}

// NewWatcher creates a new Watcher.
func NewWatcher(scorer Scorer, ws solana.WSClient, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		scorer:   scorer,
		ws:       ws,
		debounce: DefaultDebounce,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With().Str("component", "watcher").Logger()
	return w
}

// Watch subscribes to transactions mentioning wallet and calls fn with a
// fresh score after each burst of notifications. Failed transactions are
// ignored. Blocks until ctx is done or the subscription ends.
func (w *Watcher) Watch(ctx context.Context, wallet string, fn WatchFunc) error {
	address, err := normalize(wallet)
	if err != nil {
		return err
	}

	notifications, err := w.ws.SubscribeLogs(ctx, solana.WalletFilter(address))
	if err != nil {
		return err
	}
	w.log.Info().Str("wallet", address).Msg("watching wallet")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case n, ok := <-notifications:
			if !ok {
				return ErrSubscriptionClosed
			}
			observability.RecordWSNotification()
			if n.Failed {
				w.log.Debug().Str("signature", n.Signature).Msg("ignoring failed transaction")
				continue
			}
			w.log.Debug().Str("signature", n.Signature).Int64("slot", n.Slot).Msg("wallet activity")

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			rec, err := w.scorer.Score(ctx, address)
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			fn(rec, err)
		}
	}
}
