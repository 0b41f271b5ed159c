package status

import "strings"

// Outcome is the processing state of a single tracked item.
type Outcome string

// Item outcome values.
const (
	Pending  Outcome = "Pending"
	Warning  Outcome = "Warning"
	Complete Outcome = "Complete"
	Failed   Outcome = "Failed"
)

// Item is the outcome record for one caller-supplied input.
type Item struct {
	identifier string
	outcome    Outcome
	detail     string
	cause      error
}

// Identifier returns the key/serial/type the item refers to.
func (i *Item) Identifier() string { return i.identifier }

// Outcome returns the item's processing state.
func (i *Item) Outcome() Outcome { return i.outcome }

// Detail returns the human-readable explanation, set whenever the
// outcome leaves Pending.
func (i *Item) Detail() string { return i.detail }

// Cause returns the underlying error. Set only on Failed.
func (i *Item) Cause() error { return i.cause }

// Tracker accumulates one outcome record per input item across a
// multi-item invocation. Items enter Pending and are transitioned
// exactly once; Results preserves input order.
type Tracker struct {
	items []*Item
	index map[string]*Item
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{index: make(map[string]*Item)}
}

// Accept registers an input identifier. Empty or whitespace-only
// identifiers are dropped entirely and never appear in Results.
// Returns false when the identifier was dropped.
func (t *Tracker) Accept(identifier string) bool {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return false
	}
	it := &Item{identifier: id, outcome: Pending}
	t.items = append(t.items, it)
	t.index[id] = it
	return true
}

// Warn marks an item as skipped with an explanation. No-op for
// identifiers that already left Pending.
func (t *Tracker) Warn(identifier, detail string) {
	if it := t.pending(identifier); it != nil {
		it.outcome = Warning
		it.detail = detail
	}
}

// Fail marks an item as failed with an explanation and optional cause.
func (t *Tracker) Fail(identifier, detail string, cause error) {
	if it := t.pending(identifier); it != nil {
		it.outcome = Failed
		it.detail = detail
		it.cause = cause
	}
}

// Complete marks an item as successfully processed.
func (t *Tracker) Complete(identifier, detail string) {
	if it := t.pending(identifier); it != nil {
		it.outcome = Complete
		it.detail = detail
	}
}

// Pending returns the identifiers that have not left Pending, in input
// order. These are the survivors of precondition checks, eligible for
// the batched call.
func (t *Tracker) Pending() []string {
	var ids []string
	for _, it := range t.items {
		if it.outcome == Pending {
			ids = append(ids, it.identifier)
		}
	}
	return ids
}

// FailPending marks every still-pending item as failed. Used to
// reconcile all survivors after a batched call throws: no item may be
// surfaced while still Pending.
func (t *Tracker) FailPending(detail string, cause error) {
	for _, it := range t.items {
		if it.outcome == Pending {
			it.outcome = Failed
			it.detail = detail
			it.cause = cause
		}
	}
}

// CompletePending marks every still-pending item as complete after a
// successful batched call.
func (t *Tracker) CompletePending(detail string) {
	for _, it := range t.items {
		if it.outcome == Pending {
			it.outcome = Complete
			it.detail = detail
		}
	}
}

// Results returns all tracked items in input order.
func (t *Tracker) Results() []Item {
	out := make([]Item, len(t.items))
	for i, it := range t.items {
		out[i] = *it
	}
	return out
}

// Len returns the number of tracked (accepted) items.
func (t *Tracker) Len() int { return len(t.items) }

func (t *Tracker) pending(identifier string) *Item {
	it := t.index[identifier]
	if it == nil || it.outcome != Pending {
		return nil
	}
	return it
}
