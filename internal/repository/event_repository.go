package repository

import (
	"sort"

	"github.com/iliyamo/box-office/internal/model"
)

// Event is the record of one show.  Remaining seat codes form a stack:
// Take pops from the end, Return pushes back onto it.
type Event struct {
	Key  model.ShowKey // show the record belongs to
	Tier model.Tier    // price tier fixed at creation

	remaining []string            // unsold seat codes
	sold      map[string]struct{} // serials currently sold
}

func newEvent(key model.ShowKey, tier model.Tier) *Event {
	return &Event{
		Key:       key,
		Tier:      tier,
		remaining: model.SeatCodes(),
		sold:      make(map[string]struct{}),
	}
}

// Vacant is the number of seat codes still available.
func (e *Event) Vacant() int { return len(e.remaining) }

// Sold is the number of tickets currently sold.
func (e *Event) Sold() int { return model.SeatsPerShow - len(e.remaining) }

// Stats returns the sales report of the event.
func (e *Event) Stats() model.EventStats {
	return model.EventStats{Sold: e.Sold(), Vacant: e.Vacant(), Tier: e.Tier}
}

// Take allocates the last remaining seat code and records the resulting
// serial as sold.  It returns false when the pool is empty.
func (e *Event) Take() (string, bool) {
	n := len(e.remaining)
	if n == 0 {
		return "", false
	}
	code := e.remaining[n-1]
	e.remaining = e.remaining[:n-1]

	serial := e.Key.Serial(code)
	e.sold[serial] = struct{}{}
	return serial, true
}

// IsSold reports whether serial is currently sold for this event.
func (e *Event) IsSold(serial string) bool {
	_, ok := e.sold[serial]
	return ok
}

// Return releases a sold serial and puts its seat code back in the pool.
// It returns false, leaving the record untouched, if serial is not sold.
func (e *Event) Return(serial, seatCode string) bool {
	if !e.IsSold(serial) {
		return false
	}
	delete(e.sold, serial)
	e.remaining = append(e.remaining, seatCode)
	return true
}

// EventRepo stores event records keyed by show.
type EventRepo struct {
	events map[model.ShowKey]*Event
}

func NewEventRepo() *EventRepo {
	return &EventRepo{events: make(map[model.ShowKey]*Event)}
}

// Get returns the record for key or ErrEventNotFound.
func (r *EventRepo) Get(key model.ShowKey) (*Event, error) {
	ev, ok := r.events[key]
	if !ok {
		return nil, ErrEventNotFound
	}
	return ev, nil
}

// GetOrCreate returns the record for key, creating it with a full seat
// pool and the given tier when it does not exist yet.  The tier of an
// existing record is left unchanged.
func (r *EventRepo) GetOrCreate(key model.ShowKey, tier model.Tier) *Event {
	if ev, ok := r.events[key]; ok {
		return ev
	}
	ev := newEvent(key, tier)
	r.events[key] = ev
	return ev
}

// ByDate returns every record whose show key is on date.
func (r *EventRepo) ByDate(date string) []*Event {
	var out []*Event
	for key, ev := range r.events {
		if key.Date == date {
			out = append(out, ev)
		}
	}
	return out
}

// Len is the number of event records ever created.
func (r *EventRepo) Len() int { return len(r.events) }

// All returns every record ordered by date, period and auditorium.
func (r *EventRepo) All() []*Event {
	out := make([]*Event, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		return a.Auditorium < b.Auditorium
	})
	return out
}
