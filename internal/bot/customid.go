package bot

import (
	"strconv"
	"strings"

	"whenbot/internal/effectors"
)

// Action is a decoded component interaction.
type Action int

const (
	ActionUnknown Action = iota
	ActionPrev
	ActionNext
	ActionToday
	ActionSelectDay
	ActionViewMenu
	ActionEditOpen
	ActionEditStart
	ActionEditEnd
	ActionEditStatus
	ActionEditSave
	ActionEditCancel
)

// DecodeCustomID maps a component custom ID to an action. For day-select
// buttons the second return is the day index within the week.
func DecodeCustomID(id string) (Action, int) {
	if idx, ok := strings.CutPrefix(id, effectors.IDDaySelect); ok {
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 || n > 6 {
			return ActionUnknown, 0
		}
		return ActionSelectDay, n
	}

	switch id {
	case effectors.IDPrevWeek, effectors.IDPrevDay:
		return ActionPrev, 0
	case effectors.IDNextWeek, effectors.IDNextDay:
		return ActionNext, 0
	case effectors.IDToday:
		return ActionToday, 0
	case effectors.IDViewMenu:
		return ActionViewMenu, 0
	case effectors.IDEditOpen:
		return ActionEditOpen, 0
	case effectors.IDEditStart:
		return ActionEditStart, 0
	case effectors.IDEditEnd:
		return ActionEditEnd, 0
	case effectors.IDEditState:
		return ActionEditStatus, 0
	case effectors.IDEditSave:
		return ActionEditSave, 0
	case effectors.IDEditQuit:
		return ActionEditCancel, 0
	}
	return ActionUnknown, 0
}
