package view

import (
	"time"

	"whenbot/internal/logging"
	"whenbot/internal/types"
)

type locKey struct {
	scope    string
	location string
}

// State is the navigation state of one display location: anchor date and
// granularity. One exists per location, shared by everyone in it.
type State struct {
	Anchor      time.Time
	Granularity Granularity
}

// RedrawFunc delivers a freshly built model to the renderer.
type RedrawFunc func(location string, m *Model) error

// Manager is the view state machine. Transitions are total: navigation on
// a location with no open view is a no-op, and every transition rebuilds
// the model and requests a redraw. The manager never renders anything
// itself.
type Manager struct {
	builder  *Builder
	redraw   RedrawFunc
	views    map[locKey]*State
	sessions map[string]*EditSession

	// Now supplies the anchor for Open and JumpToToday. Overridable in tests.
	Now func() time.Time
}

// NewManager wires a view manager.
func NewManager(builder *Builder, redraw RedrawFunc) *Manager {
	return &Manager{
		builder:  builder,
		redraw:   redraw,
		views:    make(map[locKey]*State),
		sessions: make(map[string]*EditSession),
		Now:      time.Now,
	}
}

// Open creates (or resets) the view for a location, anchored on today in
// week granularity, and draws it.
func (m *Manager) Open(scope, location string) error {
	state := &State{Anchor: m.Now(), Granularity: GranularityWeek}
	m.views[locKey{scope, location}] = state
	return m.draw(scope, location, state)
}

// Navigate moves the anchor one unit: a day in day granularity, a week in
// week granularity. dir is +1 or -1.
func (m *Manager) Navigate(scope, location string, dir int) error {
	state, ok := m.views[locKey{scope, location}]
	if !ok {
		return nil
	}
	days := 1
	if state.Granularity == GranularityWeek {
		days = 7
	}
	state.Anchor = state.Anchor.AddDate(0, 0, dir*days)
	return m.draw(scope, location, state)
}

// JumpToToday re-anchors the view on the current date, keeping granularity.
func (m *Manager) JumpToToday(scope, location string) error {
	state, ok := m.views[locKey{scope, location}]
	if !ok {
		return nil
	}
	state.Anchor = m.Now()
	return m.draw(scope, location, state)
}

// SelectDay anchors on the index-th day (0-6) of the current anchor's week
// and forces day granularity.
func (m *Manager) SelectDay(scope, location string, index int) error {
	state, ok := m.views[locKey{scope, location}]
	if !ok {
		return nil
	}
	if index < 0 || index > 6 {
		return nil
	}
	state.Anchor = weekDay(state.Anchor, index)
	state.Granularity = GranularityDay
	return m.draw(scope, location, state)
}

// SetGranularity switches display mode, keeping the anchor.
func (m *Manager) SetGranularity(scope, location string, g Granularity) error {
	state, ok := m.views[locKey{scope, location}]
	if !ok {
		return nil
	}
	state.Granularity = g
	return m.draw(scope, location, state)
}

// Refresh redraws every open view of a scope. Called after any index or
// ledger write so displayed calendars track the data.
func (m *Manager) Refresh(scope string) {
	for key, state := range m.views {
		if key.scope != scope {
			continue
		}
		if err := m.draw(key.scope, key.location, state); err != nil {
			logging.Warn("view", "redraw failed for %s/%s: %v", key.scope, key.location, err)
		}
	}
}

// StateOf returns a copy of the location's view state, if one exists.
func (m *Manager) StateOf(scope, location string) (State, bool) {
	state, ok := m.views[locKey{scope, location}]
	if !ok {
		return State{}, false
	}
	return *state, true
}

// Forget drops the view state for a location, e.g. when the rendered
// calendar message is gone.
func (m *Manager) Forget(scope, location string) {
	delete(m.views, locKey{scope, location})
}

func (m *Manager) draw(scope, location string, state *State) error {
	model := m.builder.Build(scope, location, state.Anchor, state.Granularity)
	return m.redraw(location, model)
}

func weekDay(anchor time.Time, index int) time.Time {
	return types.WeekStart(anchor).AddDate(0, 0, index)
}
