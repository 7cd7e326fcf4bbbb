package boxoffice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/box-office/internal/model"
	"github.com/iliyamo/box-office/internal/queue"
)

// Monday 2024-01-15, 10:00 UTC.
var mondayMorning = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	sold     []queue.TicketSoldEvent
	refunded []queue.TicketRefundedEvent
	err      error
}

func (p *recordingPublisher) PublishTicketSold(_ context.Context, ev queue.TicketSoldEvent) error {
	p.sold = append(p.sold, ev)
	return p.err
}

func (p *recordingPublisher) PublishTicketRefunded(_ context.Context, ev queue.TicketRefundedEvent) error {
	p.refunded = append(p.refunded, ev)
	return p.err
}

func newTestBoxOffice(now time.Time) (*BoxOffice, *FixedClock, *recordingPublisher) {
	clock := &FixedClock{T: now}
	pub := &recordingPublisher{}
	return New(clock, time.UTC, pub, nil), clock, pub
}

func TestBuyRefundScenario(t *testing.T) {
	ctx := context.Background()
	b, _, pub := newTestBoxOffice(mondayMorning)

	first, err := b.Buy(ctx, "20240115", "m", "3")
	require.NoError(t, err)
	assert.Equal(t, model.Ticket{Serial: "20240115m3199", Tier: model.Tier1}, first)

	second, err := b.Buy(ctx, "20240115", "m", "3")
	require.NoError(t, err)
	assert.Equal(t, "20240115m3198", second.Serial)

	refund, err := b.Refund(ctx, "20240115m3199")
	require.NoError(t, err)
	assert.Equal(t, model.Tier1, refund)

	stats, err := b.ReportEvent("20240115", "m", "3")
	require.NoError(t, err)
	assert.Equal(t, model.EventStats{Sold: 1, Vacant: 199, Tier: model.Tier1}, stats)

	require.Len(t, pub.sold, 2)
	assert.Equal(t, "20240115m3199", pub.sold[0].Serial)
	assert.Equal(t, "tier1", pub.sold[0].Tier)
	assert.Equal(t, "2024-01-15T10:00:00Z", pub.sold[0].SoldAt)
	require.Len(t, pub.refunded, 1)
	assert.Equal(t, "tier1", pub.refunded[0].RefundValue)
}

func TestBuy_Window(t *testing.T) {
	ctx := context.Background()
	b, clock, _ := newTestBoxOffice(mondayMorning)

	_, err := b.Buy(ctx, "20240123", "m", "1")
	require.ErrorIs(t, err, ErrOutsideWindow)
	_, err = b.ReportEvent("20240123", "m", "1")
	require.ErrorIs(t, err, ErrEventNotFound)

	_, err = b.Buy(ctx, "20240114", "n", "1")
	require.ErrorIs(t, err, ErrOutsideWindow)

	// Exactly seven days ahead is still on sale.
	clock.Set(time.Date(2024, time.January, 15, 14, 0, 0, 0, time.UTC))
	_, err = b.Buy(ctx, "20240122", "m", "1")
	require.NoError(t, err)

	// At curtain time the matinee can still be sold, one second later it can't.
	_, err = b.Buy(ctx, "20240115", "m", "1")
	require.NoError(t, err)
	clock.Set(clock.T.Add(time.Second))
	_, err = b.Buy(ctx, "20240115", "m", "1")
	require.ErrorIs(t, err, ErrOutsideWindow)

	// Same calendar day, later show.
	_, err = b.Buy(ctx, "20240115", "n", "1")
	require.NoError(t, err)
}

func TestBuy_SoldOut(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newTestBoxOffice(mondayMorning)

	seen := make(map[string]bool)
	for i := 0; i < model.SeatsPerShow; i++ {
		ticket, err := b.Buy(ctx, "20240116", "n", "2")
		require.NoError(t, err)
		require.False(t, seen[ticket.Serial], "double sale of %s", ticket.Serial)
		seen[ticket.Serial] = true

		stats, err := b.ReportEvent("20240116", "n", "2")
		require.NoError(t, err)
		require.Equal(t, model.SeatsPerShow, stats.Sold+stats.Vacant)
	}

	_, err := b.Buy(ctx, "20240116", "n", "2")
	require.ErrorIs(t, err, ErrSoldOut)

	stats, err := b.ReportEvent("20240116", "n", "2")
	require.NoError(t, err)
	assert.Equal(t, model.EventStats{Sold: 200, Vacant: 0, Tier: model.Tier2}, stats)
}

func TestBuy_MalformedInput(t *testing.T) {
	ctx := context.Background()
	b, _, pub := newTestBoxOffice(mondayMorning)

	_, err := b.Buy(ctx, "2024-01-15", "m", "1")
	require.Error(t, err)
	assert.True(t, IsInputError(err))

	_, err = b.Buy(ctx, "20240115", "x", "1")
	require.ErrorIs(t, err, model.ErrMalformedPeriod)
	assert.True(t, IsInputError(err))

	// Serials hold a single auditorium character.
	_, err = b.Buy(ctx, "20240115", "m", "12")
	require.ErrorIs(t, err, model.ErrMalformedAuditorium)
	assert.True(t, IsInputError(err))

	assert.Empty(t, b.Events())
	assert.Empty(t, pub.sold)
}

func TestRefund_NotFound(t *testing.T) {
	ctx := context.Background()
	b, _, pub := newTestBoxOffice(mondayMorning)

	_, err := b.Refund(ctx, "20240115m3199")
	require.ErrorIs(t, err, ErrTicketNotFound)

	_, err = b.Buy(ctx, "20240115", "m", "3")
	require.NoError(t, err)

	// Right event, code never sold.
	_, err = b.Refund(ctx, "20240115m3000")
	require.ErrorIs(t, err, ErrTicketNotFound)

	stats, err := b.ReportEvent("20240115", "m", "3")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Sold)
	assert.Equal(t, 199, stats.Vacant)
	assert.Empty(t, pub.refunded)

	// Refunding twice fails the second time.
	_, err = b.Refund(ctx, "20240115m3199")
	require.NoError(t, err)
	_, err = b.Refund(ctx, "20240115m3199")
	require.ErrorIs(t, err, ErrTicketNotFound)
}

func TestRefund_Expired(t *testing.T) {
	ctx := context.Background()
	b, clock, _ := newTestBoxOffice(mondayMorning)

	ticket, err := b.Buy(ctx, "20240115", "m", "4")
	require.NoError(t, err)

	clock.Set(time.Date(2024, time.January, 15, 14, 0, 1, 0, time.UTC))
	_, err = b.Refund(ctx, ticket.Serial)
	require.ErrorIs(t, err, ErrExpired)

	stats, err := b.ReportEvent("20240115", "m", "4")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Sold, "expired refund must leave the sale in place")
}

func TestRefund_Malformed(t *testing.T) {
	b, _, _ := newTestBoxOffice(mondayMorning)

	for _, serial := range []string{"", "abc", "20240115m31999", "20240115q3199"} {
		_, err := b.Refund(context.Background(), serial)
		require.ErrorIs(t, err, model.ErrMalformedSerial, serial)
		assert.True(t, IsInputError(err))
	}
}

func TestTierFixedAtFirstSale(t *testing.T) {
	ctx := context.Background()
	// Wednesday 2024-01-17.
	b, _, _ := newTestBoxOffice(time.Date(2024, time.January, 17, 9, 0, 0, 0, time.UTC))

	friday, err := b.Buy(ctx, "20240119", "n", "1")
	require.NoError(t, err)
	assert.Equal(t, model.Tier4, friday.Tier)

	weekday, err := b.Buy(ctx, "20240118", "m", "1")
	require.NoError(t, err)
	assert.Equal(t, model.Tier1, weekday.Tier)

	again, err := b.Buy(ctx, "20240119", "n", "1")
	require.NoError(t, err)
	assert.Equal(t, model.Tier4, again.Tier)

	stats, err := b.ReportEvent("20240119", "n", "1")
	require.NoError(t, err)
	assert.Equal(t, model.Tier4, stats.Tier)
}

func TestReportDay(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newTestBoxOffice(mondayMorning)

	sales, err := b.ReportDay("20240115")
	require.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, 0, sales.Sold)

	for _, args := range [][3]string{
		{"20240115", "m", "1"},
		{"20240115", "m", "1"},
		{"20240115", "n", "2"},
		{"20240116", "m", "1"},
	} {
		_, err := b.Buy(ctx, args[0], args[1], args[2])
		require.NoError(t, err)
	}

	sales, err = b.ReportDay("20240115")
	require.NoError(t, err)
	assert.Equal(t, model.DaySales{Date: "20240115", Sold: 3}, sales)

	sales, err = b.ReportDay("20240120")
	require.NoError(t, err)
	assert.Equal(t, 0, sales.Sold)
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newTestBoxOffice(mondayMorning)

	_, err := b.Buy(ctx, "20240116", "m", "1")
	require.NoError(t, err)
	_, err = b.Buy(ctx, "20240115", "n", "5")
	require.NoError(t, err)

	events := b.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "20240115", events[0].Key.Date)
	assert.Equal(t, model.Tier2, events[0].Stats.Tier)
	assert.Equal(t, "20240116", events[1].Key.Date)
}

func TestPublisherFailureDoesNotFailSale(t *testing.T) {
	ctx := context.Background()
	b, _, pub := newTestBoxOffice(mondayMorning)
	pub.err = errors.New("broker down")

	ticket, err := b.Buy(ctx, "20240115", "n", "1")
	require.NoError(t, err)

	_, err = b.Refund(ctx, ticket.Serial)
	require.NoError(t, err)
	assert.Len(t, pub.sold, 1)
	assert.Len(t, pub.refunded, 1)
}
