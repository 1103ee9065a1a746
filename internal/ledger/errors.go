package ledger

import "errors"

var (
	// ErrEmptyDraft rejects a commit with no line items.
	ErrEmptyDraft = errors.New("draft has no line items")

	// ErrStoreUnavailable wraps a store failure before any sub-write of the
	// operation succeeded; the system is still fully uncommitted.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrPartialCommit wraps a store failure after at least one sub-write
	// succeeded. Already-applied stock writes are not rolled back; the caller
	// must treat the order as requiring manual reconciliation.
	ErrPartialCommit = errors.New("partial commit")
)
