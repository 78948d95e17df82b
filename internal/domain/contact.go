package domain

import (
	"time"
)

type ContactType string

const (
	ContactTypeCall    ContactType = "call"
	ContactTypeEmail   ContactType = "email"
	ContactTypeMeeting ContactType = "meeting"
	ContactTypeNote    ContactType = "note"
)

// ContactEvent is one entry in the append-only outreach log. Events are never
// updated or deleted by the engine; "last contacted" is simply the most
// recent event on record.
type ContactEvent struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	CustomerID  string      `json:"customer_id" gorm:"index"`
	ContactedAt time.Time   `json:"contacted_at"`
	ContactedBy string      `json:"contacted_by"`
	ContactType ContactType `json:"contact_type"`
	Notes       string      `json:"notes"`
}

func (ContactEvent) TableName() string { return "contact_events" }
