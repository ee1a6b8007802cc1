package service

import "context"

// StoreTx runs fn inside one storage transaction. The transaction is carried
// in the context fn receives; stores resolve it per call. The creation path
// spans the registration write, the attendee upsert, and the QR-artifact
// metadata write.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// MemoryStoreTx is a pass-through runner for unit tests backed by memory
// stores, which have no transaction to carry.
type MemoryStoreTx struct{}

func NewMemoryStoreTx() *MemoryStoreTx { return &MemoryStoreTx{} }

func (*MemoryStoreTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
