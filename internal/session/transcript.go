package session

import (
	"github.com/google/uuid"

	"github.com/SartoDev/auto-linked/internal/models"
)

// EntryID distinguishes locally-synthesized provisional identities from
// gateway-assigned ones, so reconciliation after persistence is explicit
// instead of overloading one id field.
type EntryID struct {
	value       string
	provisional bool
}

// ProvisionalID creates a local identity for an optimistic transcript entry.
func ProvisionalID() EntryID {
	return EntryID{value: uuid.NewString(), provisional: true}
}

// PersistedID wraps a gateway-assigned record id.
func PersistedID(id string) EntryID {
	return EntryID{value: id}
}

// String returns the underlying identity value.
func (id EntryID) String() string { return id.value }

// Provisional reports whether the entry has not been reconciled with a
// persisted record yet.
func (id EntryID) Provisional() bool { return id.provisional }

// Entry is one rendered transcript line. Content is mutable only while an
// assistant turn streams into a provisional entry.
type Entry struct {
	ID      EntryID
	Role    models.Role
	Content string
}

// transcript is the view-local message list. It is owned by exactly one
// controller; ordering is append order.
type transcript struct {
	entries []Entry
}

func (t *transcript) append(e Entry) {
	t.entries = append(t.entries, e)
}

// setContent replaces the content of the identified entry wholesale. Streaming
// renders call this once per fragment with the full running buffer, which
// keeps the update idempotent.
func (t *transcript) setContent(id EntryID, content string) {
	for i := range t.entries {
		if t.entries[i].ID == id {
			t.entries[i].Content = content
			return
		}
	}
}

// reconcile swaps a provisional identity for the authoritative persisted one.
func (t *transcript) reconcile(provisional, persisted EntryID) {
	for i := range t.entries {
		if t.entries[i].ID == provisional {
			t.entries[i].ID = persisted
			return
		}
	}
}

// remove drops the identified entry; used to roll back an optimistic user
// turn whose persistence failed.
func (t *transcript) remove(id EntryID) {
	for i := range t.entries {
		if t.entries[i].ID == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return
		}
	}
}
