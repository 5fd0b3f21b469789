package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks an external model provider's availability. Both the
// embedding and chat providers satisfy it.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
