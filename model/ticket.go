package model

type Ticket struct {
	ID         uint64   `json:"ticket_id"`
	EventID    uint64   `json:"event_id"`
	SeatID     string   `json:"seat_id"`
	Owner      Identity `json:"owner"`
	Price      uint64   `json:"price"`
	IsForSale  bool     `json:"is_for_sale"`
	IsPayedFor bool     `json:"is_payed_for"`
}
