package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/codes"

	"github.com/utafrali/product-catalog/internal/repository"
	"github.com/utafrali/product-catalog/pkg/database"
	"github.com/utafrali/product-catalog/pkg/tracing"
)

const tracerName = "github.com/utafrali/product-catalog/internal/repository/postgres"

// TxManager implements repository.Transactor on a connection pool.
type TxManager struct {
	db     database.TxBeginner
	logger *slog.Logger
}

// NewTxManager creates a transaction manager on db.
func NewTxManager(db database.TxBeginner, logger *slog.Logger) *TxManager {
	return &TxManager{db: db, logger: logger}
}

var _ repository.Transactor = (*TxManager)(nil)

// NewRepositories returns repositories bound to db outside any transaction.
func NewRepositories(db database.DBTX) repository.Repositories {
	return repository.Repositories{
		Products:   NewProductRepository(db),
		Categories: NewCategoryRepository(db),
	}
}

// WithinTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back when it returns an error or panics.
func (m *TxManager) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) (err error) {
	ctx, span := tracing.Tracer(tracerName).Start(ctx, "db.transaction")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err = fn(NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			m.logger.ErrorContext(ctx, "failed to roll back transaction",
				slog.String("error", rbErr.Error()),
			)
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
