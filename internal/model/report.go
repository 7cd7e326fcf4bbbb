package model

// EventStats is the sales report of a single event.
//
// Fields:
//
//	Sold   – tickets currently sold (refunded ones are not counted).
//	Vacant – seat codes still available.
//	Tier   – price tier fixed at the first sale.
type EventStats struct {
	Sold   int  `json:"sold"`
	Vacant int  `json:"vacant"`
	Tier   Tier `json:"tier"`
}

// DaySales is the total number of tickets sold for every event of a day.
type DaySales struct {
	Date string `json:"date"`
	Sold int    `json:"sold"`
}

// EventSummary pairs an event key with its stats, for listings.
type EventSummary struct {
	Key   ShowKey
	Stats EventStats
}
