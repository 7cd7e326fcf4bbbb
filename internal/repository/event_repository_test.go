package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/box-office/internal/model"
)

var testKey = model.ShowKey{Date: "20240115", Period: model.PeriodMatinee, Auditorium: "3"}

func TestEventRepo_GetOrCreateKeepsTier(t *testing.T) {
	repo := NewEventRepo()

	_, err := repo.Get(testKey)
	require.ErrorIs(t, err, ErrEventNotFound)

	ev := repo.GetOrCreate(testKey, model.Tier1)
	assert.Equal(t, model.Tier1, ev.Tier)
	assert.Equal(t, 0, ev.Sold())
	assert.Equal(t, model.SeatsPerShow, ev.Vacant())

	again := repo.GetOrCreate(testKey, model.Tier4)
	assert.Same(t, ev, again)
	assert.Equal(t, model.Tier1, again.Tier)
	assert.Equal(t, 1, repo.Len())
}

func TestEvent_TakeAndReturn(t *testing.T) {
	ev := NewEventRepo().GetOrCreate(testKey, model.Tier1)

	serial, ok := ev.Take()
	require.True(t, ok)
	assert.Equal(t, "20240115m3199", serial)
	assert.True(t, ev.IsSold(serial))

	second, ok := ev.Take()
	require.True(t, ok)
	assert.Equal(t, "20240115m3198", second)
	assert.Equal(t, model.EventStats{Sold: 2, Vacant: 198, Tier: model.Tier1}, ev.Stats())

	assert.False(t, ev.Return("20240115m3000", "000"), "unsold serial must not be returned")
	assert.Equal(t, 198, ev.Vacant())

	require.True(t, ev.Return(serial, "199"))
	assert.False(t, ev.IsSold(serial))
	assert.Equal(t, model.EventStats{Sold: 1, Vacant: 199, Tier: model.Tier1}, ev.Stats())
}

func TestEvent_PoolExhaustion(t *testing.T) {
	ev := NewEventRepo().GetOrCreate(testKey, model.Tier2)

	seen := make(map[string]bool)
	for i := 0; i < model.SeatsPerShow; i++ {
		serial, ok := ev.Take()
		require.True(t, ok)
		require.False(t, seen[serial], "serial %s sold twice", serial)
		seen[serial] = true
		require.Equal(t, model.SeatsPerShow, ev.Sold()+ev.Vacant())
	}

	_, ok := ev.Take()
	assert.False(t, ok)
	assert.Equal(t, 0, ev.Vacant())
}

func TestEventRepo_ByDateAndAll(t *testing.T) {
	repo := NewEventRepo()
	night := model.ShowKey{Date: "20240115", Period: model.PeriodNight, Auditorium: "1"}
	other := model.ShowKey{Date: "20240116", Period: model.PeriodMatinee, Auditorium: "2"}

	repo.GetOrCreate(night, model.Tier2)
	repo.GetOrCreate(other, model.Tier1)
	repo.GetOrCreate(testKey, model.Tier1)

	assert.Len(t, repo.ByDate("20240115"), 2)
	assert.Len(t, repo.ByDate("20240116"), 1)
	assert.Empty(t, repo.ByDate("20240117"))

	all := repo.All()
	require.Len(t, all, 3)
	assert.Equal(t, testKey, all[0].Key)
	assert.Equal(t, night, all[1].Key)
	assert.Equal(t, other, all[2].Key)
}
