package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/medimind/mindline/pkg/chat"
	"github.com/medimind/mindline/pkg/controllers"
	"github.com/medimind/mindline/pkg/logger"
	"github.com/medimind/mindline/pkg/medimind"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// refreshEvent wakes the event loop when the conversation changed on the
// pipeline goroutine or the spinner ticked.
type refreshEvent struct {
	tcell.EventTime
}

// backendStatusEvent delivers the result of a background health probe to the
// event loop, which owns all mutable App state.
type backendStatusEvent struct {
	tcell.EventTime
	online   bool
	docCount int
}

// App is the interactive chat screen. All drawing happens on the event-loop
// goroutine; stream progress arrives as posted refresh events.
type App struct {
	screen     tcell.Screen
	controller *controllers.ChatController
	client     *medimind.Client

	input        []rune
	scroll       int
	spinnerFrame int
	docCount     int
	online       bool
	flash        string
}

func NewApp(controller *controllers.ChatController, client *medimind.Client) *App {
	return &App{
		controller: controller,
		client:     client,
	}
}

// StartApp builds and runs the interactive chat screen.
func StartApp(controller *controllers.ChatController, client *medimind.Client) error {
	return NewApp(controller, client).Run()
}

func (a *App) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	a.screen = screen
	defer screen.Fini()

	screen.SetStyle(StyleDefault)

	a.controller.SetOnUpdate(func() {
		a.postRefresh()
	})

	a.refreshBackendStatus()
	a.startSpinnerTicker()

	for {
		a.draw()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return nil
			}
		case *refreshEvent:
			if a.controller.Loading() {
				a.spinnerFrame = (a.spinnerFrame + 1) % len(spinnerFrames)
			}
		case *backendStatusEvent:
			a.online = ev.online
			a.docCount = ev.docCount
		case nil:
			return nil
		}
	}
}

// handleKey processes one key event; true means quit.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		a.controller.Abort()
		return true
	case tcell.KeyEscape:
		a.controller.Abort()
	case tcell.KeyEnter:
		a.submit()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
		}
	case tcell.KeyPgUp:
		a.scroll += 5
	case tcell.KeyPgDn:
		a.scroll -= 5
		if a.scroll < 0 {
			a.scroll = 0
		}
	case tcell.KeyRune:
		a.input = append(a.input, ev.Rune())
	}
	return false
}

func (a *App) submit() {
	text := strings.TrimSpace(string(a.input))
	if text == "" {
		return
	}
	if a.controller.Loading() {
		a.flash = "still answering - press Esc to abort"
		return
	}

	a.input = a.input[:0]
	a.scroll = 0
	a.flash = ""

	go func() {
		if err := a.controller.Submit(context.Background(), text); err != nil {
			if !errors.Is(err, controllers.ErrBusy) {
				logger.Error("tui: submit failed: %v", err)
			}
			a.postRefresh()
		}
	}()
}

// startSpinnerTicker animates the spinner while a stream is in flight.
func (a *App) startSpinnerTicker() {
	go func() {
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if a.screen == nil {
				return
			}
			if a.controller.Loading() {
				a.postRefresh()
			}
		}
	}()
}

func (a *App) refreshBackendStatus() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ev := &backendStatusEvent{online: a.client.Ping(ctx) == nil}
		if files, err := a.client.Files(ctx); err == nil {
			ev.docCount = files.Count
		}
		ev.SetEventNow()
		if a.screen != nil {
			a.screen.PostEvent(ev)
		}
	}()
}

func (a *App) postRefresh() {
	if a.screen != nil {
		ev := &refreshEvent{}
		ev.SetEventNow()
		a.screen.PostEvent(ev)
	}
}

func (a *App) draw() {
	a.screen.Clear()
	width, height := a.screen.Size()
	if width == 0 || height < 3 {
		a.screen.Show()
		return
	}

	transcriptHeight := height - 2
	lines := a.transcriptLines(width)

	maxScroll := len(lines) - transcriptHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if a.scroll > maxScroll {
		a.scroll = maxScroll
	}

	// Bottom-anchored transcript.
	start := len(lines) - transcriptHeight - a.scroll
	if start < 0 {
		start = 0
	}
	y := 0
	for i := start; i < len(lines) && y < transcriptHeight; i++ {
		drawText(a.screen, 1, y, lines[i].style, lines[i].text)
		y++
	}

	a.drawInput(width, height-2)
	a.drawStatusBar(width, height-1)
	a.screen.Show()
}

type styledLine struct {
	text  string
	style tcell.Style
}

// transcriptLines flattens the conversation into wrapped, styled lines.
func (a *App) transcriptLines(width int) []styledLine {
	wrap := width - 2
	if wrap < 10 {
		wrap = 10
	}

	var lines []styledLine
	for _, msg := range a.controller.Messages() {
		if len(lines) > 0 {
			lines = append(lines, styledLine{})
		}

		label, bodyStyle := a.messageStyle(msg)
		lines = append(lines, label)
		for _, raw := range strings.Split(msg.Content, "\n") {
			style := bodyStyle
			if isBannerLine(raw) {
				style = StyleBannerText
			}
			for _, wrapped := range wrapLine(raw, wrap) {
				lines = append(lines, styledLine{text: wrapped, style: style})
			}
		}
		if msg.FileCount > 0 {
			footer := fmt.Sprintf("analyzed %d file(s): %s", msg.FileCount, strings.Join(msg.FilesAnalyzed, ", "))
			for _, wrapped := range wrapLine(footer, wrap) {
				lines = append(lines, styledLine{text: wrapped, style: StyleFileText})
			}
		}
	}
	return lines
}

func (a *App) messageStyle(msg chat.Message) (styledLine, tcell.Style) {
	if msg.IsUser() {
		return styledLine{text: "you", style: StyleUserText.Bold(true)}, StyleUserText
	}

	label := "mindline"
	if msg.Streaming {
		label += " " + spinnerFrames[a.spinnerFrame]
	}
	return styledLine{text: label, style: StyleAssistantText.Bold(true)}, StyleAssistantText
}

func (a *App) drawInput(width, y int) {
	prompt := "> "
	drawText(a.screen, 1, y, StylePrompt, prompt)

	field := string(a.input)
	avail := width - len(prompt) - 2
	if avail > 0 && len(field) > avail {
		field = field[len(field)-avail:]
	}
	drawText(a.screen, 1+len(prompt), y, StyleDefault, field)
	a.screen.ShowCursor(1+len(prompt)+len([]rune(field)), y)
}

func (a *App) drawStatusBar(width, y int) {
	var b strings.Builder
	switch {
	case a.controller.Loading():
		b.WriteString(spinnerFrames[a.spinnerFrame] + " answering…")
	case a.online:
		b.WriteString("● connected")
	default:
		b.WriteString("○ backend unreachable")
	}
	fmt.Fprintf(&b, " · %d document(s)", a.docCount)
	if a.flash != "" {
		b.WriteString(" · " + a.flash)
	}

	style := StyleStatusReady
	if a.controller.Loading() {
		style = StyleStatusBusy
	} else if !a.online {
		style = StyleStatusOffline
	}

	text := b.String()
	if len(text) > width-2 {
		text = text[:width-2]
	}
	drawText(a.screen, 1, y, style, text)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		s.SetContent(col, y, r, nil, style)
		col++
	}
}

// wrapLine breaks a line into width-sized pieces on rune boundaries.
func wrapLine(line string, width int) []string {
	if line == "" {
		return []string{""}
	}

	runes := []rune(line)
	var out []string
	for len(runes) > width {
		out = append(out, string(runes[:width]))
		runes = runes[width:]
	}
	return append(out, string(runes))
}
