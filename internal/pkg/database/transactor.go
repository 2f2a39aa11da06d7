package database

import (
	"context"
	"strings"
)

// Transactor runs fn as one atomic unit. Every repository call made with the
// ctx handed to fn joins the same unit. lockKeys are held exclusively until the
// unit commits or rolls back, so two units sharing a key never interleave.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error, lockKeys ...string) error
}

// LockKey joins parts into a transaction lock key, e.g. LockKey("leave", id, "2024-06").
func LockKey(parts ...string) string {
	return strings.Join(parts, ":")
}
