package repository

import (
	"context"

	"gorm.io/gorm"

	domainRepo "github.com/boiiloat/pos-api/internal/domain/repository"
)

type txKey struct{}

// txManager implements repository.TxManager on top of GORM transactions.
// The *gorm.DB transaction handle rides in the context so every repository
// in this package joins the same transaction without the services knowing
// about GORM.
type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

func (m *txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested Do calls join the surrounding transaction.
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// dbFor resolves the handle repositories should use: the transaction carried
// in the context when present, the root connection otherwise.
func dbFor(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
