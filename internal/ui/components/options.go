package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vitals/internal/ui/theme"
)

// OptionList is a single-choice selector. Cursor is the highlighted row;
// Chosen is the row already recorded as the answer, or -1.
type OptionList struct {
	Labels []string
	Cursor int
	Chosen int
}

// NewOptionList creates a list with the cursor on the chosen row, or on
// the first row when nothing is chosen yet.
func NewOptionList(labels []string, chosen int) OptionList {
	if chosen < -1 || chosen >= len(labels) {
		chosen = -1
	}
	cursor := 0
	if chosen >= 0 {
		cursor = chosen
	}
	return OptionList{Labels: labels, Cursor: cursor, Chosen: chosen}
}

// Update moves the cursor. Digit keys jump straight to a row.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Labels)-1 {
			o.Cursor++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(o.Labels) {
				o.Cursor = i
			}
		}
	}
	return o, nil
}

// View renders one numbered line per option.
func (o OptionList) View() string {
	var s string
	for i, label := range o.Labels {
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		mark := " "
		if i == o.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%d) %s %s", prefix, i+1, mark, label)

		switch {
		case i == o.Cursor:
			s += theme.Selected.Render(line) + "\n"
		case i == o.Chosen:
			s += theme.Chosen.Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
