package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/aschepis/backscratcher/regexgen/flags"
)

func (a *App) showFlagged() {
	list := tview.NewList()
	list.SetBorder(true).SetTitle("Flagged Translations - Select to View Details (r: Refresh)")

	refresh := func() {
		ctx, cancel := context.WithTimeout(context.Background(), optionsTimeout)
		defer cancel()

		entries, err := a.service.ListFlags(ctx, flags.DefaultListLimit)
		a.queue(func() {
			list.Clear()
			switch {
			case err != nil:
				list.AddItem("Error", fmt.Sprintf("Failed to load flags: %v", err), ' ', nil)
			case len(entries) == 0:
				list.AddItem("Nothing flagged", "Use the Flag button after a translation", ' ', nil)
			default:
				for _, entry := range entries {
					e := entry
					label, secondary := flagListItem(e)
					list.AddItem(label, secondary, 0, func() {
						a.showFlagDetail(e)
					})
				}
			}
		})
	}

	go refresh()

	list.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch ev.Key() {
		case tcell.KeyEsc:
			a.app.SetFocus(a.sidebar)
			return nil
		case tcell.KeyRune:
			if ev.Rune() == 'r' || ev.Rune() == 'R' {
				go refresh()
				return nil
			}
		}
		return ev
	})

	a.pages.AddAndSwitchToPage("flagged", list, true)
	a.app.SetFocus(list)
	a.updateFooter("↑/↓: Navigate | Enter: Details | r: Refresh | Esc: Menu | Ctrl+C: Exit")
}

// flagListItem formats the two list lines for an entry.
func flagListItem(e flags.Entry) (string, string) {
	preview := strings.ReplaceAll(e.Input, "\n", " ")
	if len(preview) > 50 {
		preview = preview[:47] + "..."
	}
	label := fmt.Sprintf("[%s] %s", e.CreatedAt.Format("Jan 2, 15:04"), preview)
	secondary := fmt.Sprintf("%s via %s", e.Direction, e.Model)
	return tview.Escape(label), tview.Escape(secondary)
}

func (a *App) showFlagDetail(e flags.Entry) {
	view := tview.NewTextView()
	view.SetDynamicColors(true).
		SetWordWrap(true).
		SetBorder(true).
		SetTitle("Flag " + e.ID)
	view.SetText(flagDetailText(e))

	view.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyEsc {
			a.pages.RemovePage("flag_detail")
			a.pages.SwitchToPage("flagged")
			_, page := a.pages.GetFrontPage()
			a.app.SetFocus(page)
			return nil
		}
		return ev
	})

	a.pages.AddAndSwitchToPage("flag_detail", view, true)
	a.app.SetFocus(view)
}

func flagDetailText(e flags.Entry) string {
	var content strings.Builder
	content.WriteString(fmt.Sprintf("[yellow]Direction[white]: %s\n", tview.Escape(e.Direction)))
	content.WriteString(fmt.Sprintf("[yellow]Model[white]: %s\n", tview.Escape(e.Model)))
	content.WriteString(fmt.Sprintf("[yellow]Date[white]: %s\n\n", e.CreatedAt.Format("2006-01-02 15:04:05")))
	content.WriteString(fmt.Sprintf("[cyan]Input[white]:\n%s\n\n", tview.Escape(e.Input)))
	content.WriteString(fmt.Sprintf("[green]Output[white]:\n%s\n\n", tview.Escape(e.Output)))
	if e.Reason != "" {
		content.WriteString(fmt.Sprintf("[red]Reason[white]:\n%s\n", tview.Escape(e.Reason)))
	}
	return content.String()
}
