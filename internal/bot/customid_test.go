package bot

import (
	"testing"

	"whenbot/internal/effectors"
)

func TestDecodeCustomID(t *testing.T) {
	tests := []struct {
		id     string
		action Action
		arg    int
	}{
		{effectors.IDPrevWeek, ActionPrev, 0},
		{effectors.IDPrevDay, ActionPrev, 0},
		{effectors.IDNextWeek, ActionNext, 0},
		{effectors.IDNextDay, ActionNext, 0},
		{effectors.IDToday, ActionToday, 0},
		{"day_select_0", ActionSelectDay, 0},
		{"day_select_6", ActionSelectDay, 6},
		{effectors.IDViewMenu, ActionViewMenu, 0},
		{effectors.IDEditOpen, ActionEditOpen, 0},
		{effectors.IDEditStart, ActionEditStart, 0},
		{effectors.IDEditEnd, ActionEditEnd, 0},
		{effectors.IDEditState, ActionEditStatus, 0},
		{effectors.IDEditSave, ActionEditSave, 0},
		{effectors.IDEditQuit, ActionEditCancel, 0},
		{"day_select_7", ActionUnknown, 0},
		{"day_select_x", ActionUnknown, 0},
		{"something_else", ActionUnknown, 0},
		{"", ActionUnknown, 0},
	}
	for _, tt := range tests {
		action, arg := DecodeCustomID(tt.id)
		if action != tt.action || arg != tt.arg {
			t.Errorf("DecodeCustomID(%q) = %v, %d, want %v, %d", tt.id, action, arg, tt.action, tt.arg)
		}
	}
}
