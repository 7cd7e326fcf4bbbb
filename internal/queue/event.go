// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into the sales log.
package queue

// Queue names.  Both queues are durable.
const (
	TicketSoldQueue     = "ticket.sold"
	TicketRefundedQueue = "ticket.refunded"
)

// TicketSoldEvent is published after a ticket has been sold.  It carries
// enough information for downstream consumers to log or aggregate sales
// without asking the box office.
type TicketSoldEvent struct {
	Serial     string `json:"serial"`
	Date       string `json:"date"`
	Period     string `json:"period"`
	Auditorium string `json:"auditorium"`
	Tier       string `json:"tier"`
	SoldAt     string `json:"sold_at"`
}

// TicketRefundedEvent is published after a sold ticket has been refunded.
// RefundValue is the tier returned to the customer.
type TicketRefundedEvent struct {
	Serial      string `json:"serial"`
	Date        string `json:"date"`
	Period      string `json:"period"`
	Auditorium  string `json:"auditorium"`
	RefundValue string `json:"refund_value"`
	RefundedAt  string `json:"refunded_at"`
}
