package model

import (
	"encoding/json"
	"fmt"
)

// Identity is an opaque account token. When settlement runs on Algorand it is
// the account address.
type Identity string

type EventStatus uint8

const (
	DoesNotExist EventStatus = iota
	Active
	Cancelled
	Completed
)

var eventStatusNames = map[EventStatus]string{
	DoesNotExist: "DoesNotExist",
	Active:       "Active",
	Cancelled:    "Cancelled",
	Completed:    "Completed",
}

func (s EventStatus) String() string {
	if name, ok := eventStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("EventStatus(%d)", uint8(s))
}

// Terminal reports whether no further transition is allowed from s.
func (s EventStatus) Terminal() bool {
	return s == Cancelled || s == Completed
}

func (s EventStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *EventStatus) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("unmarshalJSON: event status must be a string: %w", err)
	}
	for status, n := range eventStatusNames {
		if n == name {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unmarshalJSON: unknown event status: %q", name)
}

type Event struct {
	ID             uint64      `json:"event_id"`
	Owner          Identity    `json:"owner"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	StartTimestamp int64       `json:"start_timestamp"`
	Status         EventStatus `json:"status"`
	TicketIDs      []uint64    `json:"ticket_ids"`
}

// SeatSpec describes one ticket to allocate when an event is created.
type SeatSpec struct {
	TicketID uint64 `json:"id"`
	SeatID   string `json:"seat_id"`
	Price    uint64 `json:"price"`
}

// NewEvent carries the validated input of an event creation.
type NewEvent struct {
	ID             uint64
	Owner          Identity
	Name           string
	Description    string
	StartTimestamp int64
	Seats          []SeatSpec
}
