package database

import (
	"context"
	"fmt"
	"time"
)

// CheckHealth verifies database connectivity with a trivial query.
// A 5 second timeout applies unless the context already carries a shorter one.
func CheckHealth(ctx context.Context, db *Pool) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	var result int
	if err := db.QueryRow(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("health check returned unexpected result: %d", result)
	}

	return nil
}

// Check implements the health.Checker interface so the pool can be
// registered with the health check framework directly.
func (p *Pool) Check(ctx context.Context) error {
	if err := CheckHealth(ctx, p); err != nil {
		return err
	}

	stats := p.Stats()
	if stats != nil {
		if stats.AcquireCount() > 0 && stats.IdleConns() == 0 && stats.TotalConns() == stats.MaxConns() {
			return fmt.Errorf("connection pool exhausted: %d/%d connections in use",
				stats.TotalConns(), stats.MaxConns())
		}
	}

	return nil
}
