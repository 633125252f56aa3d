package model

import "strings"

type CreateEventRequest struct {
	Data struct {
		Event *EventInput `json:"event,omitempty" validate:"required"`
	} `json:"data"`
}

type EventInput struct {
	ID             *uint64    `json:"event_id,omitempty" validate:"required"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	StartTimestamp int64      `json:"start_timestamp"`
	Tickets        []SeatSpec `json:"tickets"`
}

// Validate rejects malformed input before it reaches the ledger and returns
// the creation parameters for owner.
func (r CreateEventRequest) Validate(owner Identity) (NewEvent, error) {
	in := r.Data.Event
	if in == nil {
		return NewEvent{}, NewError(InvalidRequest, "missing event")
	}
	if in.ID == nil {
		return NewEvent{}, NewError(InvalidRequest, "missing event_id")
	}
	if err := ValidateIdentity(owner); err != nil {
		return NewEvent{}, err
	}
	for i, s := range in.Tickets {
		if strings.TrimSpace(s.SeatID) == "" {
			return NewEvent{}, NewError(InvalidRequest, "ticket %d: missing seat_id", i)
		}
	}

	return NewEvent{
		ID:             *in.ID,
		Owner:          owner,
		Name:           in.Name,
		Description:    in.Description,
		StartTimestamp: in.StartTimestamp,
		Seats:          in.Tickets,
	}, nil
}

type SetForSaleRequest struct {
	Data struct {
		Price *uint64 `json:"price,omitempty" validate:"required"`
	} `json:"data"`
}

func (r SetForSaleRequest) Validate() (uint64, error) {
	if r.Data.Price == nil {
		return 0, NewError(InvalidRequest, "missing price")
	}
	return *r.Data.Price, nil
}

type SendTicketRequest struct {
	Data struct {
		Recipient Identity `json:"recipient" validate:"required"`
	} `json:"data"`
}

func (r SendTicketRequest) Validate() (Identity, error) {
	if err := ValidateIdentity(r.Data.Recipient); err != nil {
		return "", err
	}
	return r.Data.Recipient, nil
}

type BuyTicketRequest struct {
	Data struct {
		Payment *uint64 `json:"payment,omitempty" validate:"required"`
	} `json:"data"`
}

func (r BuyTicketRequest) Validate() (uint64, error) {
	if r.Data.Payment == nil {
		return 0, NewError(InvalidRequest, "missing payment")
	}
	return *r.Data.Payment, nil
}

func ValidateIdentity(id Identity) error {
	if strings.TrimSpace(string(id)) == "" {
		return NewError(InvalidRequest, "empty identity")
	}
	return nil
}
