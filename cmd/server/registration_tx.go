package main

import (
	"context"
	"database/sql"
	"time"

	dErrors "waangu/pkg/domain-errors"
	txcontext "waangu/pkg/platform/tx"
)

const defaultRegistrationTxTimeout = 5 * time.Second

// registrationPostgresTx runs the creation path inside one SQL transaction.
// The transaction is carried in the context so the registration, attendee,
// and file-reference stores all resolve the same *sql.Tx.
type registrationPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newRegistrationPostgresTx(db *sql.DB) *registrationPostgresTx {
	return &registrationPostgresTx{db: db}
}

func (t *registrationPostgresTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultRegistrationTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
