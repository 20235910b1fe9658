package memory

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type transactor struct{}

// NewTransactor runs fn directly. Memory repositories have no rollback.
func NewTransactor() database.Transactor {
	return transactor{}
}

func (transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
