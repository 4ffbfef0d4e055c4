package effectors

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"whenbot/internal/types"
	"whenbot/internal/view"
)

// Component custom IDs. The router switches on these.
const (
	IDPrevWeek  = "prev_week"
	IDNextWeek  = "next_week"
	IDPrevDay   = "prev_day"
	IDNextDay   = "next_day"
	IDToday     = "today"
	IDDaySelect = "day_select_" // + index 0..6
	IDViewMenu  = "view_select"
	IDEditOpen  = "edit_availability"
	IDEditStart = "select_start_time"
	IDEditEnd   = "select_end_time"
	IDEditState = "select_status"
	IDEditSave  = "save_availability"
	IDEditQuit  = "cancel_edit"
)

const embedColor = 0x0099ff

// CalendarEmbed renders a view model as an embed. Pure; no session needed.
func CalendarEmbed(m *view.Model) *discordgo.MessageEmbed {
	if m.Granularity == view.GranularityDay {
		return dayEmbed(m.Day)
	}
	return weekEmbed(m.Week)
}

func weekEmbed(w *view.WeekModel) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, day := range w.Days {
		title := day.Date.Format("Mon, Jan 2")
		if day.Today {
			title += " (Today)"
		}
		fmt.Fprintf(&b, "%s **%s**", dayGlyph(day.Class, day.Today), title)

		total := len(day.Available) + len(day.Unavailable)
		if total > 0 {
			b.WriteString(" - ")
			if len(day.Available) > 0 {
				fmt.Fprintf(&b, "✅ %d", len(day.Available))
			}
			if len(day.Available) > 0 && len(day.Unavailable) > 0 {
				b.WriteString(" | ")
			}
			if len(day.Unavailable) > 0 {
				fmt.Fprintf(&b, "❌ %d", len(day.Unavailable))
			}
		}
		b.WriteString("\n")

		if len(day.Available) > 0 {
			fmt.Fprintf(&b, "  ✅ %s\n", strings.Join(day.Available, ", "))
		}
		if len(day.Unavailable) > 0 {
			fmt.Fprintf(&b, "  ❌ %s\n", strings.Join(day.Unavailable, ", "))
		}
		b.WriteString("\n")
	}

	end := w.Start.AddDate(0, 0, 6)
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📅 Weekly Calendar - %s to %s",
			w.Start.Format("Jan 2"), end.Format("Jan 2, 2006")),
		Color:       embedColor,
		Description: b.String(),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "📋 Instructions",
				Value: "Click on a day to see hourly availability\n" +
					"Say \"I'm available tomorrow\" or \"Alex can't make it Friday\" to update",
			},
			{
				Name:  "🗝️ Legend",
				Value: "✅ Available | ❌ Unavailable | ⚠️ Mixed | 📆 No Data | 🔵 Today",
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func dayEmbed(d *view.DayModel) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, hour := range d.Hours {
		fmt.Fprintf(&b, "%s **%s**\n", hourGlyph(hour.Class), HourLabel(hour.Hour))
		if len(hour.Available) > 0 {
			fmt.Fprintf(&b, "  ✅ %s\n", strings.Join(hour.Available, ", "))
		}
		if len(hour.Unavailable) > 0 {
			fmt.Fprintf(&b, "  ❌ %s\n", strings.Join(hour.Unavailable, ", "))
		}
		if len(hour.Available) == 0 && len(hour.Unavailable) == 0 {
			b.WriteString("  ⚪ No data\n")
		}
		b.WriteString("\n")
	}

	description := b.String()
	if description == "" {
		description = "No availability data for this day."
	}
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📅 %s - Hourly Availability",
			d.Date.Format("Monday, January 2, 2006")),
		Color:       embedColor,
		Description: description,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "🗝️ Legend",
				Value: "🟩 All Available | 🟥 All Unavailable | 🟨 Mixed | ⬜ No Data",
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func dayGlyph(c view.Classification, today bool) string {
	if today {
		return "🔵"
	}
	switch c {
	case view.ClassAvailable:
		return "✅"
	case view.ClassUnavailable:
		return "❌"
	case view.ClassMixed:
		return "⚠️"
	default:
		return "📆"
	}
}

func hourGlyph(c view.Classification) string {
	switch c {
	case view.ClassAvailable:
		return "🟩"
	case view.ClassUnavailable:
		return "🟥"
	case view.ClassMixed:
		return "🟨"
	default:
		return "⬜"
	}
}

// HourLabel formats an hour of day the way the calendar shows it.
func HourLabel(hour int) string {
	return time.Date(0, 1, 1, hour, 0, 0, 0, time.UTC).Format("3:04 PM")
}

// CalendarComponents builds the navigation rows for a model.
func CalendarComponents(m *view.Model) []discordgo.MessageComponent {
	weekly := m.Granularity == view.GranularityWeek

	prevID, nextID := IDPrevDay, IDNextDay
	prevLabel, nextLabel := "◀️ Previous Day", "Next Day ▶️"
	if weekly {
		prevID, nextID = IDPrevWeek, IDNextWeek
		prevLabel, nextLabel = "◀️ Previous Week", "Next Week ▶️"
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: prevID, Label: prevLabel, Style: discordgo.PrimaryButton},
			discordgo.Button{CustomID: IDToday, Label: "Today", Style: discordgo.SecondaryButton},
			discordgo.Button{CustomID: nextID, Label: nextLabel, Style: discordgo.PrimaryButton},
		}},
	}

	if weekly {
		components = append(components, daySelectRows(m.Anchor, m.Now)...)
	}

	components = append(components,
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    IDViewMenu,
				Placeholder: "Change View",
				Options: []discordgo.SelectMenuOption{
					{
						Label:       "Weekly View",
						Description: "Show availability for the week",
						Value:       string(view.GranularityWeek),
						Default:     weekly,
					},
					{
						Label:       "Hourly View",
						Description: "Show availability by hour",
						Value:       string(view.GranularityDay),
						Default:     !weekly,
					},
				},
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: IDEditOpen, Label: "📝 Edit My Availability", Style: discordgo.SuccessButton},
		}},
	)
	return components
}

// daySelectRows lays the week's day buttons across two rows (3 + 4).
func daySelectRows(anchor, now time.Time) []discordgo.MessageComponent {
	start := types.WeekStart(anchor)
	button := func(i int) discordgo.Button {
		day := start.AddDate(0, 0, i)
		style := discordgo.SecondaryButton
		if types.SameDay(day, now) {
			style = discordgo.SuccessButton
		}
		return discordgo.Button{
			CustomID: fmt.Sprintf("%s%d", IDDaySelect, i),
			Label:    day.Format("Mon 2"),
			Style:    style,
		}
	}

	var first, second []discordgo.MessageComponent
	for i := 0; i < 3; i++ {
		first = append(first, button(i))
	}
	for i := 3; i < 7; i++ {
		second = append(second, button(i))
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: first},
		discordgo.ActionsRow{Components: second},
	}
}

// EditorComponents builds the ephemeral availability editor: start/end
// hour selects over the working band, a status select, and save/cancel.
func EditorComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			hourSelect(IDEditStart, "Select start time"),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			hourSelect(IDEditEnd, "Select end time"),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    IDEditState,
				Placeholder: "Select availability status",
				Options: []discordgo.SelectMenuOption{
					{
						Label:       "✅ Available",
						Description: "I can attend during this time",
						Value:       string(types.StatusAvailable),
					},
					{
						Label:       "❌ Unavailable",
						Description: "I cannot attend during this time",
						Value:       string(types.StatusUnavailable),
					},
				},
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: IDEditSave, Label: "💾 Save", Style: discordgo.SuccessButton},
			discordgo.Button{CustomID: IDEditQuit, Label: "❌ Cancel", Style: discordgo.DangerButton},
		}},
	}
}

func hourSelect(customID, placeholder string) discordgo.SelectMenu {
	options := make([]discordgo.SelectMenuOption, 0, types.BandEnd-types.BandStart+1)
	for hour := types.BandStart; hour <= types.BandEnd; hour++ {
		options = append(options, discordgo.SelectMenuOption{
			Label: HourLabel(hour),
			Value: fmt.Sprintf("%d", hour),
		})
	}
	return discordgo.SelectMenu{
		CustomID:    customID,
		Placeholder: placeholder,
		Options:     options,
	}
}
