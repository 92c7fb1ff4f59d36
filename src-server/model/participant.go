package model

import (
	"github.com/uptrace/bun"
)

// Participant is one invited email on an event. Position keeps the
// insertion order; participant lists are ordered, unlike tags.
type Participant struct {
	bun.BaseModel `bun:"table:participants"`

	ID       int64  `bun:"id,pk,autoincrement"`
	EventID  string `bun:"event_id,notnull"` // required
	Email    string `bun:"email,notnull"`    // required
	Position int    `bun:"position,notnull"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id"`
}
