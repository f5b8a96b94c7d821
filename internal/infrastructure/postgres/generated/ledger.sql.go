package generated

import (
	"context"
)

const bumpLedgerRevision = `-- name: BumpLedgerRevision :exec
UPDATE ledger_state SET revision = revision + 1 WHERE id = 1
`

func (q *Queries) BumpLedgerRevision(ctx context.Context) error {
	_, err := q.db.Exec(ctx, bumpLedgerRevision)
	return err
}

const getLedgerRevision = `-- name: GetLedgerRevision :one
SELECT revision FROM ledger_state WHERE id = 1
`

func (q *Queries) GetLedgerRevision(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, getLedgerRevision)
	var revision int64
	err := row.Scan(&revision)
	return revision, err
}

const lockLease = `-- name: LockLease :exec
SELECT pg_advisory_xact_lock(hashtext('lease:' || $1::text))
`

func (q *Queries) LockLease(ctx context.Context, leaseID string) error {
	_, err := q.db.Exec(ctx, lockLease, leaseID)
	return err
}

const lockLedgerState = `-- name: LockLedgerState :one
SELECT revision FROM ledger_state WHERE id = 1 FOR UPDATE
`

func (q *Queries) LockLedgerState(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, lockLedgerState)
	var revision int64
	err := row.Scan(&revision)
	return revision, err
}
