package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/aschepis/backscratcher/regexgen/ui"
	"github.com/aschepis/backscratcher/regexgen/ui/themes"
)

// optionsTimeout bounds loading options and flags from the service.
const optionsTimeout = 5 * time.Second

// App represents the main terminal UI application structure
type App struct {
	app     *tview.Application
	pages   *tview.Pages
	header  *tview.TextView
	footer  *tview.TextView
	sidebar *tview.List
	theme   *themes.Theme

	service ui.TranslationService
	options ui.Options
	form    *translateForm

	// queue runs f on the UI goroutine. Tests replace it to run inline.
	queue func(f func())

	logger zerolog.Logger
}

// NewApp creates a new App using the named theme, falling back to the
// default theme when the name is unknown.
func NewApp(logger zerolog.Logger, service ui.TranslationService, themeName string) *App {
	logger = logger.With().Str("component", "tui").Logger()
	tviewApp := tview.NewApplication()
	theme, err := themes.ApplyByName(tviewApp, themeName)
	if err != nil {
		logger.Error().Err(err).Str("theme", themeName).Msg("Failed to apply theme, using default")
		theme = themes.Default()
		theme.Apply(tviewApp)
	}

	a := &App{
		app:     tviewApp,
		pages:   tview.NewPages(),
		theme:   theme,
		service: service,
		logger:  logger,
	}
	a.queue = func(f func()) { a.app.QueueUpdateDraw(f) }
	return a
}

// loadOptions fetches directions and models from the service.
func (a *App) loadOptions() error {
	ctx, cancel := context.WithTimeout(context.Background(), optionsTimeout)
	defer cancel()

	opts, err := a.service.Options(ctx)
	if err != nil {
		return fmt.Errorf("load options: %w", err)
	}
	if len(opts.Models) == 0 {
		return fmt.Errorf("no models configured")
	}
	a.options = opts
	return nil
}

// setupUI initializes the UI components and layout
func (a *App) setupUI() {
	a.header = tview.NewTextView()
	a.header.SetTextAlign(tview.AlignCenter)
	a.header.SetText("regexgen - English ⇄ Regex")
	a.header.SetBorder(true)

	a.form = a.newTranslateForm()

	a.sidebar = tview.NewList().
		AddItem("Translate", "English ⇄ regex", '1', func() {
			a.pages.SwitchToPage("translate")
			a.app.SetFocus(a.form.input)
			a.updateFooter(translateFooter)
		}).
		AddItem("Flagged", "Review flagged translations", '2', func() {
			a.showFlagged()
		}).
		AddItem("About", "About this application", '3', func() {
			a.showAbout()
		}).
		AddItem("Quit", "Exit the application", 'q', func() {
			a.app.Stop()
		})
	a.sidebar.SetBorder(true).SetTitle("Menu")

	a.pages.AddPage("translate", a.form.layout, true, true)

	a.footer = tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText(translateFooter)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.header, 3, 0, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexColumn).
			AddItem(a.sidebar, 30, 0, false).
			AddItem(a.pages, 0, 1, true), 0, 1, true).
		AddItem(a.footer, 1, 0, false)

	a.app.SetRoot(layout, true)

	a.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch ev.Key() {
		case tcell.KeyCtrlC:
			a.app.Stop()
			return nil
		case tcell.KeyF2:
			a.app.SetFocus(a.sidebar)
			return nil
		}
		return ev
	})
}

func (a *App) updateFooter(text string) {
	a.footer.SetText(text)
}

// showAbout displays the configured models and service settings.
func (a *App) showAbout() {
	view := tview.NewTextView()
	view.SetDynamicColors(true).
		SetWordWrap(true).
		SetBorder(true).
		SetTitle("About")
	view.SetText(aboutText(a.options, a.service.Timeout(), a.theme))
	view.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyEsc {
			a.app.SetFocus(a.sidebar)
			return nil
		}
		return ev
	})

	a.pages.AddAndSwitchToPage("about", view, true)
	a.app.SetFocus(view)
	a.updateFooter("Esc: Back to menu | F2: Menu | Ctrl+C: Exit")
}

func aboutText(opts ui.Options, timeout time.Duration, theme *themes.Theme) string {
	var sb strings.Builder
	sb.WriteString("regexgen\n\n")
	sb.WriteString("Translates English descriptions into regular expressions and explains\n")
	sb.WriteString("regular expressions in English using a language model.\n\n")

	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString("Models\n")
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	for _, m := range opts.Models {
		marker := " "
		if m.ID == opts.DefaultModel || lo.Contains(m.Aliases, opts.DefaultModel) {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %s - %s\n", marker, tview.Escape(m.DisplayName()), m.Provider))
		if len(m.Aliases) > 0 {
			sb.WriteString(fmt.Sprintf("    aliases: %s\n", strings.Join(m.Aliases, ", ")))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString("Settings\n")
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("Completion timeout: %s\n", timeout))
	flagging := "disabled"
	if opts.FlaggingEnabled {
		flagging = "enabled"
	}
	sb.WriteString(fmt.Sprintf("Flagging: %s\n", flagging))
	if theme != nil {
		sb.WriteString(fmt.Sprintf("Theme: %s\n", theme.Name))
	}
	return sb.String()
}

// Run loads options and starts the application.
func (a *App) Run() error {
	if err := a.loadOptions(); err != nil {
		return err
	}
	a.setupUI()
	return a.app.SetFocus(a.form.input).Run()
}
