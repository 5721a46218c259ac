package ports

import "context"

// HealthChecker is a dependency probe; Check returns an error when the dependency is down.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
