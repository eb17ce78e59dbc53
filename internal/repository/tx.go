package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Transactor runs a unit of work in one database transaction. Repositories
// join it through their WithTx methods.
type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise. Unique
// constraint violations come back as ErrConflict.
func (t *Transactor) WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := t.db.WithContext(ctx).Transaction(fn)
	return translate(err)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
