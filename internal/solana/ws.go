package solana

import "context"

// WSClient defines the Solana WebSocket subscription interface.
type WSClient interface {
	// SubscribeLogs subscribes to transaction logs matching the filter.
	SubscribeLogs(ctx context.Context, filter LogsFilter) (<-chan LogNotification, error)

	// Close closes the WebSocket connection and all subscription channels.
	Close() error
}

// LogsFilter selects which transaction logs a subscription receives.
type LogsFilter struct {
	// Mentions limits logs to transactions mentioning this account.
	// The RPC node accepts exactly one address here; empty means all.
	Mentions string
	// Commitment overrides the client's default commitment.
	Commitment string
}

// WalletFilter returns a filter for transactions that touch the wallet.
func WalletFilter(wallet string) LogsFilter {
	return LogsFilter{Mentions: wallet}
}

// LogNotification is a single logsNotification message.
type LogNotification struct {
	Signature string
	Slot      int64
	Logs      []string
	Failed    bool
}
