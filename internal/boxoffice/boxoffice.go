// Package boxoffice implements ticket sales, refunds and sales reports for
// fixed showtimes.  All state lives in memory and is lost on exit.
package boxoffice

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/box-office/internal/model"
	"github.com/iliyamo/box-office/internal/queue"
	"github.com/iliyamo/box-office/internal/repository"
)

// SalesWindow is how far ahead of a showtime tickets go on sale.
const SalesWindow = 7 * 24 * time.Hour

// Publisher receives a sales event after every successful sale or refund.
type Publisher interface {
	PublishTicketSold(ctx context.Context, ev queue.TicketSoldEvent) error
	PublishTicketRefunded(ctx context.Context, ev queue.TicketRefundedEvent) error
}

type nopPublisher struct{}

func (nopPublisher) PublishTicketSold(context.Context, queue.TicketSoldEvent) error { return nil }
func (nopPublisher) PublishTicketRefunded(context.Context, queue.TicketRefundedEvent) error {
	return nil
}

// NopPublisher drops every event.
func NopPublisher() Publisher { return nopPublisher{} }

// BoxOffice owns the ticket inventory.  Operations are serialised by a
// mutex so the shell and the HTTP API can share one instance.
type BoxOffice struct {
	mu     sync.Mutex
	events *repository.EventRepo

	clock  Clock
	loc    *time.Location
	pub    Publisher
	zaplog *zap.Logger
}

// New builds an empty box office.  Nil arguments fall back to the wall
// clock, local time, a no-op publisher and a no-op logger.
func New(clock Clock, loc *time.Location, pub Publisher, zaplog *zap.Logger) *BoxOffice {
	if clock == nil {
		clock = RealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	if pub == nil {
		pub = NopPublisher()
	}
	if zaplog == nil {
		zaplog = zap.NewNop()
	}
	return &BoxOffice{
		events: repository.NewEventRepo(),
		clock:  clock,
		loc:    loc,
		pub:    pub,
		zaplog: zaplog,
	}
}

// Buy sells one ticket for the show (date, period, auditorium).
//
// It fails with an input error for a malformed date or period, with
// ErrOutsideWindow when the show starts in the past or more than
// SalesWindow from now, and with ErrSoldOut when every seat is taken.
func (b *BoxOffice) Buy(ctx context.Context, date, period, auditorium string) (model.Ticket, error) {
	key, err := model.NewShowKey(date, period, auditorium)
	if err != nil {
		return model.Ticket{}, err
	}
	showtime, err := key.Showtime(b.loc)
	if err != nil {
		return model.Ticket{}, err
	}

	b.mu.Lock()
	now := b.clock.Now()
	if showtime.Sub(now) > SalesWindow || showtime.Before(now) {
		b.mu.Unlock()
		b.zaplog.Info("sale rejected: outside window",
			zap.Stringer("show", key),
			zap.Time("showtime", showtime),
		)
		return model.Ticket{}, ErrOutsideWindow
	}

	ev := b.events.GetOrCreate(key, model.TierFor(showtime, key.Period))
	serial, ok := ev.Take()
	if !ok {
		b.mu.Unlock()
		b.zaplog.Info("sale rejected: sold out", zap.Stringer("show", key))
		return model.Ticket{}, ErrSoldOut
	}
	ticket := model.Ticket{Serial: serial, Tier: ev.Tier}
	b.mu.Unlock()

	b.zaplog.Info("ticket sold",
		zap.String("serial", ticket.Serial),
		zap.String("tier", string(ticket.Tier)),
	)
	b.publishSold(ctx, key, ticket, now)
	return ticket, nil
}

// Refund takes back a sold ticket and returns its refund value, the tier
// of the event.
//
// It fails with an input error for a malformed serial, with
// ErrTicketNotFound when the serial is not currently sold and with
// ErrExpired once the show has started.
func (b *BoxOffice) Refund(ctx context.Context, serial string) (model.Tier, error) {
	key, code, err := model.ParseSerial(serial)
	if err != nil {
		return "", err
	}
	showtime, err := key.Showtime(b.loc)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	now := b.clock.Now()
	ev, err := b.events.Get(key)
	if err != nil || !ev.IsSold(serial) {
		b.mu.Unlock()
		return "", ErrTicketNotFound
	}
	if showtime.Before(now) {
		b.mu.Unlock()
		b.zaplog.Info("refund rejected: show started", zap.String("serial", serial))
		return "", ErrExpired
	}
	ev.Return(serial, code)
	tier := ev.Tier
	b.mu.Unlock()

	b.zaplog.Info("ticket refunded",
		zap.String("serial", serial),
		zap.String("tier", string(tier)),
	)
	b.publishRefunded(ctx, key, serial, tier, now)
	return tier, nil
}

// ReportEvent returns the sold and vacant counts of a show.  It is a pure
// lookup: the arguments are not validated and the date may be in the past
// or the future.
func (b *BoxOffice) ReportEvent(date, period, auditorium string) (model.EventStats, error) {
	key := model.ShowKey{Date: date, Period: model.Period(period), Auditorium: auditorium}

	b.mu.Lock()
	defer b.mu.Unlock()

	ev, err := b.events.Get(key)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return model.EventStats{}, ErrEventNotFound
		}
		return model.EventStats{}, err
	}
	return ev.Stats(), nil
}

// ReportDay sums the tickets sold for every show on date.  It returns
// ErrNoData while no ticket has ever been sold.
func (b *BoxOffice) ReportDay(date string) (model.DaySales, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.events.Len() == 0 {
		return model.DaySales{Date: date}, ErrNoData
	}
	sales := model.DaySales{Date: date}
	for _, ev := range b.events.ByDate(date) {
		sales.Sold += ev.Sold()
	}
	return sales, nil
}

// Events lists every event record ordered by date, period and auditorium.
func (b *BoxOffice) Events() []model.EventSummary {
	b.mu.Lock()
	defer b.mu.Unlock()

	all := b.events.All()
	out := make([]model.EventSummary, 0, len(all))
	for _, ev := range all {
		out = append(out, model.EventSummary{Key: ev.Key, Stats: ev.Stats()})
	}
	return out
}

func (b *BoxOffice) publishSold(ctx context.Context, key model.ShowKey, t model.Ticket, at time.Time) {
	err := b.pub.PublishTicketSold(ctx, queue.TicketSoldEvent{
		Serial:     t.Serial,
		Date:       key.Date,
		Period:     string(key.Period),
		Auditorium: key.Auditorium,
		Tier:       string(t.Tier),
		SoldAt:     at.UTC().Format(time.RFC3339),
	})
	if err != nil {
		b.zaplog.Warn("publish ticket sold failed", zap.String("serial", t.Serial), zap.Error(err))
	}
}

func (b *BoxOffice) publishRefunded(ctx context.Context, key model.ShowKey, serial string, tier model.Tier, at time.Time) {
	err := b.pub.PublishTicketRefunded(ctx, queue.TicketRefundedEvent{
		Serial:      serial,
		Date:        key.Date,
		Period:      string(key.Period),
		Auditorium:  key.Auditorium,
		RefundValue: string(tier),
		RefundedAt:  at.UTC().Format(time.RFC3339),
	})
	if err != nil {
		b.zaplog.Warn("publish ticket refunded failed", zap.String("serial", serial), zap.Error(err))
	}
}
