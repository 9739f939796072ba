package save

import (
	"fmt"
	"log"

	"github.com/milk9111/patchanim/host"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	DaysPerSeason = 28
	slotObject    = "save"
)

var Seasons = []string{"spring", "summer", "fall", "winter"}

// Data is the persisted state of one save slot.
type Data struct {
	Year    int    `yaml:"year"`
	Season  string `yaml:"season"`
	Day     int    `yaml:"day"`
	Weather string `yaml:"weather"`
}

func NewData() Data {
	d := Data{Year: 1, Season: Seasons[0], Day: 1}
	d.Weather = weatherFor(d)
	return d
}

func (d Data) String() string {
	return fmt.Sprintf("year %d, %s %d (%s)", d.Year, d.Season, d.Day, d.Weather)
}

// next returns the following day, rolling over seasons and years.
func (d Data) next() Data {
	d.Day++
	if d.Day > DaysPerSeason {
		d.Day = 1
		i := seasonIndex(d.Season) + 1
		if i >= len(Seasons) {
			i = 0
			d.Year++
		}
		d.Season = Seasons[i]
	}
	d.Weather = weatherFor(d)
	return d
}

func seasonIndex(season string) int {
	for i, s := range Seasons {
		if s == season {
			return i
		}
	}
	return 0
}

func weatherFor(d Data) string {
	switch {
	case d.Day%5 == 0 && d.Season == "winter":
		return "snow"
	case d.Day%5 == 0:
		return "rain"
	default:
		return "sun"
	}
}

// Manager owns one save slot. With a nil store nothing is persisted.
type Manager struct {
	store  *gdata.Manager
	slot   string
	logger *log.Logger
	data   Data
}

func NewManager(store *gdata.Manager, slot string, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	if slot == "" {
		slot = "default"
	}
	return &Manager{store: store, slot: slot, logger: logger, data: NewData()}
}

func (m *Manager) Data() Data {
	return m.data
}

// Start loads the slot, or creates it when it does not exist yet. The
// returned event is save_loaded or save_created.
func (m *Manager) Start() (host.Event, error) {
	if m.store == nil || !m.store.ObjectPropExists(slotObject, m.slot) {
		m.data = NewData()
		if err := m.Save(); err != nil {
			return host.Event{}, err
		}
		m.logger.Printf("save: created slot %s", m.slot)
		return host.Event{Type: host.EventSaveCreated, Data: m.data}, nil
	}

	raw, err := m.store.LoadObjectProp(slotObject, m.slot)
	if err != nil {
		return host.Event{}, fmt.Errorf("save: load %s: %w", m.slot, err)
	}
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return host.Event{}, fmt.Errorf("save: unmarshal %s: %w", m.slot, err)
	}
	if d.Day < 1 || d.Day > DaysPerSeason {
		return host.Event{}, fmt.Errorf("save: %s: day %d out of range", m.slot, d.Day)
	}
	m.data = d
	m.logger.Printf("save: loaded slot %s: %s", m.slot, m.data)
	return host.Event{Type: host.EventSaveLoaded, Data: m.data}, nil
}

// NextDay advances the calendar, saves and returns a day_started event.
func (m *Manager) NextDay() (host.Event, error) {
	m.data = m.data.next()
	if err := m.Save(); err != nil {
		return host.Event{}, err
	}
	return host.Event{Type: host.EventDayStarted, Data: m.data}, nil
}

// Save writes the slot. It is a no-op without a store.
func (m *Manager) Save() error {
	if m.store == nil {
		return nil
	}
	raw, err := yaml.Marshal(m.data)
	if err != nil {
		return fmt.Errorf("save: marshal %s: %w", m.slot, err)
	}
	if err := m.store.SaveObjectProp(slotObject, m.slot, raw); err != nil {
		return fmt.Errorf("save: write %s: %w", m.slot, err)
	}
	return nil
}
