package tui

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/samber/lo"

	"github.com/aschepis/backscratcher/regexgen/translate"
	"github.com/aschepis/backscratcher/regexgen/ui"
)

const translateFooter = "Tab: Next field | Enter: Press button | Ctrl+T: Translate | F2: Menu | Ctrl+C: Exit"

// requestGrace is added to the service timeout before a UI request is abandoned.
const requestGrace = 5 * time.Second

// translation is the last completed request, kept for flagging.
type translation struct {
	input     string
	direction translate.Direction
	model     string
	result    translate.Result
}

type translateForm struct {
	layout    *tview.Flex
	form      *tview.Form
	input     *tview.TextArea
	direction *tview.DropDown
	model     *tview.DropDown
	output    *tview.TextView
	status    *tview.TextView

	directions []translate.Direction
	modelIDs   []string

	busy atomic.Bool
	last *translation
}

func (a *App) newTranslateForm() *translateForm {
	f := &translateForm{
		directions: translate.Directions(),
		modelIDs:   lo.Map(a.options.Models, func(m ui.ModelInfo, _ int) string { return m.ID }),
	}

	f.input = tview.NewTextArea().
		SetLabel("Input").
		SetPlaceholder("Describe a pattern in English, or paste a regex")
	f.input.SetSize(5, 0)

	f.direction = tview.NewDropDown().
		SetLabel("Direction").
		SetOptions(lo.Map(f.directions, func(d translate.Direction, _ int) string { return d.String() }), nil).
		SetCurrentOption(0)

	f.model = tview.NewDropDown().
		SetLabel("Model").
		SetOptions(lo.Map(a.options.Models, func(m ui.ModelInfo, _ int) string { return m.DisplayName() }), nil).
		SetCurrentOption(defaultModelIndex(a.options))

	f.form = tview.NewForm().
		AddFormItem(f.input).
		AddFormItem(f.direction).
		AddFormItem(f.model).
		AddButton("Translate", a.submit)
	if a.options.FlaggingEnabled {
		f.form.AddButton("Flag", a.showFlagDialog)
	}
	f.form.SetBorder(true).SetTitle("Translate")

	f.output = tview.NewTextView()
	// Output is shown verbatim; regex brackets must not be read as color tags.
	f.output.SetDynamicColors(false).
		SetWordWrap(true).
		SetBorder(true).
		SetTitle("Output")

	f.status = tview.NewTextView()
	f.status.SetDynamicColors(false)

	f.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(f.form, 13, 0, true).
		AddItem(f.output, 0, 1, false).
		AddItem(f.status, 1, 0, false)

	f.layout.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyCtrlT {
			a.submit()
			return nil
		}
		return ev
	})

	return f
}

// defaultModelIndex returns the position of the default model, matching its
// ID or an alias.
func defaultModelIndex(opts ui.Options) int {
	_, idx, ok := lo.FindIndexOf(opts.Models, func(m ui.ModelInfo) bool {
		return m.ID == opts.DefaultModel || lo.Contains(m.Aliases, opts.DefaultModel)
	})
	if !ok {
		return 0
	}
	return idx
}

// selection reads the current form values.
func (f *translateForm) selection() (string, translate.Direction, string) {
	direction := translate.DirectionUnknown
	if i, _ := f.direction.GetCurrentOption(); i >= 0 && i < len(f.directions) {
		direction = f.directions[i]
	}
	model := ""
	if i, _ := f.model.GetCurrentOption(); i >= 0 && i < len(f.modelIDs) {
		model = f.modelIDs[i]
	}
	return f.input.GetText(), direction, model
}

func (f *translateForm) setStatus(text string, color tcell.Color) {
	f.status.SetTextColor(color)
	f.status.SetText(text)
}

// submit starts a translation in the background unless one is running.
func (a *App) submit() {
	input, direction, model := a.form.selection()
	if strings.TrimSpace(input) == "" {
		a.form.setStatus("Enter some text to translate", a.theme.ErrorColor)
		return
	}
	if !a.form.busy.CompareAndSwap(false, true) {
		a.form.setStatus("A translation is already running", a.theme.SecondaryTextColor)
		return
	}
	a.form.setStatus(fmt.Sprintf("Translating with %s...", model), a.theme.SecondaryTextColor)
	go a.runTranslation(input, direction, model)
}

// runTranslation calls the service and applies the result on the UI goroutine.
func (a *App) runTranslation(input string, direction translate.Direction, model string) {
	defer a.form.busy.Store(false)
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Translation panicked")
			a.queue(func() {
				a.form.setStatus(fmt.Sprintf("Internal error: %v", r), a.theme.ErrorColor)
			})
		}
	}()

	ctx, cancel := ui.RequestContext(context.Background(), a.service.Timeout(), requestGrace)
	defer cancel()

	start := time.Now()
	res, err := a.service.Translate(ctx, input, direction, model)
	elapsed := time.Since(start)

	a.queue(func() {
		if err != nil {
			a.form.output.SetText("")
			a.form.setStatus(err.Error(), a.theme.ErrorColor)
			return
		}

		a.form.output.SetText(res.Display())
		a.form.last = &translation{input: input, direction: direction, model: model, result: res}
		switch res.Outcome {
		case translate.OutcomeSuccess:
			a.form.setStatus(fmt.Sprintf("Done in %s", elapsed.Round(10*time.Millisecond)), a.theme.SuccessColor)
		case translate.OutcomeInvalidDirection:
			a.form.setStatus("Choose a direction", a.theme.ErrorColor)
		default:
			a.form.setStatus(res.Reason, a.theme.ErrorColor)
		}
	})
}

// showFlagDialog asks for a reason and flags the last translation.
func (a *App) showFlagDialog() {
	last := a.form.last
	if last == nil {
		a.form.setStatus("Nothing to flag yet", a.theme.SecondaryTextColor)
		return
	}

	reason := tview.NewInputField().SetLabel("Reason").SetFieldWidth(50)
	dialog := tview.NewForm().AddFormItem(reason)
	closeDialog := func() {
		a.pages.RemovePage("flag_dialog")
		a.app.SetFocus(a.form.form)
	}
	dialog.AddButton("Save", func() {
		text := reason.GetText()
		closeDialog()
		go a.flagTranslation(*last, text)
	})
	dialog.AddButton("Cancel", closeDialog)
	dialog.SetCancelFunc(closeDialog)
	dialog.SetBorder(true).SetTitle("Flag translation")

	a.pages.AddPage("flag_dialog", centered(dialog, 64, 7), true, true)
	a.app.SetFocus(dialog)
}

func (a *App) flagTranslation(t translation, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), optionsTimeout)
	defer cancel()

	entry, err := a.service.Flag(ctx, ui.FlagRequest{
		Input:     t.input,
		Direction: t.direction.Slug(),
		Model:     t.model,
		Output:    t.result.Display(),
		Reason:    reason,
	})
	a.queue(func() {
		if err != nil {
			a.form.setStatus(fmt.Sprintf("Flag failed: %v", err), a.theme.ErrorColor)
			return
		}
		a.form.setStatus(fmt.Sprintf("Flagged as %s", entry.ID), a.theme.SuccessColor)
	})
}

// centered wraps p in a fixed-size box in the middle of the screen.
func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
