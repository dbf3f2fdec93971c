package notification

import (
	"strings"

	"github.com/google/uuid"
)

// RecipientSet is registrants ∪ followers keyed by identity, in first-seen order.
type RecipientSet struct {
	contacts []Contact
	dropped  []uuid.UUID
}

// ResolveRecipients deduplicates by identity and drops identities without an
// address. exclude, when non-nil, removes the acting editor.
func ResolveRecipients(registrants, followers []Contact, exclude *uuid.UUID) RecipientSet {
	index := make(map[uuid.UUID]int, len(registrants)+len(followers))
	merged := make([]Contact, 0, len(registrants)+len(followers))

	add := func(c Contact) {
		if exclude != nil && c.UserID == *exclude {
			return
		}
		c.Email = strings.TrimSpace(c.Email)
		if i, ok := index[c.UserID]; ok {
			if merged[i].Email == "" {
				merged[i].Email = c.Email
			}
			return
		}
		index[c.UserID] = len(merged)
		merged = append(merged, c)
	}

	for _, c := range registrants {
		add(c)
	}
	for _, c := range followers {
		add(c)
	}

	set := RecipientSet{contacts: make([]Contact, 0, len(merged))}
	for _, c := range merged {
		if !c.HasAddress() {
			set.dropped = append(set.dropped, c.UserID)
			continue
		}
		set.contacts = append(set.contacts, c)
	}
	return set
}

func (s RecipientSet) Contacts() []Contact {
	return append([]Contact(nil), s.contacts...)
}

// Dropped lists identities that had no contact address.
func (s RecipientSet) Dropped() []uuid.UUID {
	return append([]uuid.UUID(nil), s.dropped...)
}

func (s RecipientSet) Len() int {
	return len(s.contacts)
}

func (s RecipientSet) IsEmpty() bool {
	return len(s.contacts) == 0
}
