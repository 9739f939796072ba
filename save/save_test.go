package save

import (
	"bytes"
	"log"
	"testing"

	"github.com/milk9111/patchanim/host"
	"github.com/quasilyte/gdata/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *gdata.Manager {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)

	store, err := gdata.Open(gdata.Config{AppName: "patchanim_test"})
	require.NoError(t, err)
	return store
}

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{}, "", 0)
}

func TestMemoryOnly(t *testing.T) {
	m := NewManager(nil, "", quietLogger())

	ev, err := m.Start()
	require.NoError(t, err)
	assert.Equal(t, host.EventSaveCreated, ev.Type)
	assert.Equal(t, NewData(), m.Data())

	ev, err = m.NextDay()
	require.NoError(t, err)
	assert.Equal(t, host.EventDayStarted, ev.Type)
	assert.Equal(t, 2, ev.Data.(Data).Day)
	assert.True(t, ev.Reloads())
}

func TestCalendar(t *testing.T) {
	cases := []struct {
		name string
		from Data
		want Data
	}{
		{"mid_season", Data{Year: 1, Season: "spring", Day: 3}, Data{Year: 1, Season: "spring", Day: 4, Weather: "sun"}},
		{"rain", Data{Year: 1, Season: "summer", Day: 4}, Data{Year: 1, Season: "summer", Day: 5, Weather: "rain"}},
		{"snow", Data{Year: 1, Season: "winter", Day: 9}, Data{Year: 1, Season: "winter", Day: 10, Weather: "snow"}},
		{"season_rollover", Data{Year: 1, Season: "spring", Day: DaysPerSeason}, Data{Year: 1, Season: "summer", Day: 1, Weather: "sun"}},
		{"year_rollover", Data{Year: 1, Season: "winter", Day: DaysPerSeason}, Data{Year: 2, Season: "spring", Day: 1, Weather: "sun"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.from.next())
		})
	}
}

func TestPersistsAcrossManagers(t *testing.T) {
	store := openStore(t)

	first := NewManager(store, "farm", quietLogger())
	ev, err := first.Start()
	require.NoError(t, err)
	assert.Equal(t, host.EventSaveCreated, ev.Type)
	for i := 0; i < 3; i++ {
		_, err = first.NextDay()
		require.NoError(t, err)
	}

	var logs bytes.Buffer
	second := NewManager(store, "farm", log.New(&logs, "", 0))
	ev, err = second.Start()
	require.NoError(t, err)
	assert.Equal(t, host.EventSaveLoaded, ev.Type)
	assert.Equal(t, 4, second.Data().Day)
	assert.Contains(t, logs.String(), "save: loaded slot farm")

	other := NewManager(store, "other", quietLogger())
	ev, err = other.Start()
	require.NoError(t, err)
	assert.Equal(t, host.EventSaveCreated, ev.Type)
}

func TestCorruptSlot(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.SaveObjectProp(slotObject, "bad", []byte("day: [")))
	_, err := NewManager(store, "bad", quietLogger()).Start()
	assert.Error(t, err)

	require.NoError(t, store.SaveObjectProp(slotObject, "zero", []byte("day: 0\n")))
	_, err = NewManager(store, "zero", quietLogger()).Start()
	assert.ErrorContains(t, err, "out of range")
}
