package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/jwebster45206/logos-engine/pkg/fourthwall"
	"github.com/jwebster45206/logos-engine/pkg/turn"
	"github.com/muesli/reflow/wordwrap"
)

// TrustStep is how far one arrow key press moves the trust score.
const TrustStep = 0.05

// clipboardWriteAll is swapped out in tests.
var clipboardWriteAll = clipboard.WriteAll

// Inspector is the BubbleTea model for sweeping a turn request through the
// trust range and watching the directive and tool list change.
// https://github.com/charmbracelet/bubbletea
type Inspector struct {
	personas  *disclosure.PersonaSet
	newSource func(seed uint64) fourthwall.RandomSource
	logger    *slog.Logger

	req  turn.Request
	seed uint64
	resp *turn.Response
	err  error

	directiveViewport viewport.Model
	metaViewport      viewport.Model
	ready             bool
	width             int
	height            int
	status            string
}

type copiedMsg struct {
	err error
}

var (
	directivePanelStyle = lipgloss.NewStyle().
				PaddingTop(1).
				PaddingLeft(3)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	layerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	allowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	denyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// NewInspector creates the model for req. The request is copied; the caller's
// value is never changed.
func NewInspector(personas *disclosure.PersonaSet, req *turn.Request) Inspector {
	m := Inspector{
		personas: personas,
		newSource: func(seed uint64) fourthwall.RandomSource {
			return fourthwall.NewLockedSource(seed)
		},
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		seed:              1,
		directiveViewport: viewport.New(50, 20),
		metaViewport:      viewport.New(20, 20),
	}
	if req != nil {
		m.req = *req
	}
	m.compose()
	return m
}

// compose reruns the engine with the current trust, override and seed.
func (m *Inspector) compose() {
	engine := turn.NewEngine(m.personas, nil, nil, m.newSource(m.seed), m.logger)
	req := m.req
	m.resp, m.err = engine.Compose(context.Background(), &req)
	m.writeContent()
}

func (m *Inspector) writeContent() {
	width := m.directiveViewport.Width - 2
	if width < 10 {
		width = 10
	}

	var content strings.Builder
	switch {
	case m.err != nil:
		content.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.resp != nil:
		for _, w := range m.resp.Warnings {
			content.WriteString(warningStyle.Render("Warning: "+w) + "\n\n")
		}
		content.WriteString(wordwrap.String(m.resp.Directive, width))
	}
	m.directiveViewport.SetContent(content.String())
	m.metaViewport.SetContent(m.writeMetadata())
}

func (m *Inspector) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("LOGOS") + "\n\n")

	fmt.Fprintf(&content, "Trust:\n%.2f\n\n", m.req.Trust.Float64())

	content.WriteString("Override:\n")
	if m.req.LayerOverride != nil {
		fmt.Fprintf(&content, "%d\n\n", *m.req.LayerOverride)
	} else {
		content.WriteString("none\n\n")
	}

	fmt.Fprintf(&content, "Seed:\n%d\n\n", m.seed)

	if m.resp == nil {
		return content.String()
	}

	content.WriteString("Layer:\n")
	content.WriteString(layerStyle.Render(m.resp.Layer.String()) + "\n\n")

	content.WriteString("Access:\n")
	content.WriteString(flag("ops", m.resp.AllowOps) + "\n")
	content.WriteString(flag("director", m.resp.AllowDirector) + "\n\n")

	fmt.Fprintf(&content, "Tools (%d):\n", len(m.resp.Tools))
	for _, t := range m.resp.Tools {
		fmt.Fprintf(&content, "• %s\n", t.Name)
	}

	content.WriteString("\n")
	content.WriteString("Keys:\n")
	content.WriteString("• ←/→: Trust\n")
	content.WriteString("• o: Override\n")
	content.WriteString("• r: Reroll\n")
	content.WriteString("• c: Copy\n")
	content.WriteString("• q: Quit\n")

	if m.status != "" {
		content.WriteString("\n" + m.status + "\n")
	}
	return content.String()
}

func flag(name string, on bool) string {
	if on {
		return allowStyle.Render("✓ " + name)
	}
	return denyStyle.Render("✗ " + name)
}

// adjustTrust moves trust by delta, rounded to the step grid and kept in [0,1].
func (m *Inspector) adjustTrust(delta float64) {
	v := m.req.Trust.Float64() + delta
	v = math.Round(v*100) / 100
	v = math.Max(0, math.Min(1, v))
	m.req.Trust = disclosure.TrustScore(v)
}

// cycleOverride steps the layer override through none, 0..MaxLayer, none.
func (m *Inspector) cycleOverride() {
	switch {
	case m.req.LayerOverride == nil:
		n := int(disclosure.MinLayer)
		m.req.LayerOverride = &n
	case *m.req.LayerOverride >= int(disclosure.MaxLayer):
		m.req.LayerOverride = nil
	default:
		n := *m.req.LayerOverride + 1
		m.req.LayerOverride = &n
	}
}

func (m Inspector) copyDirective() tea.Cmd {
	var directive string
	if m.resp != nil {
		directive = m.resp.Directive
	}
	return func() tea.Msg {
		return copiedMsg{err: clipboardWriteAll(directive)}
	}
}

func (m Inspector) Init() tea.Cmd {
	return nil
}

func (m Inspector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		dvCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		directiveWidth := int(float64(m.width)*0.7) - 4
		metaWidth := m.width - directiveWidth - 6

		m.directiveViewport.Width = directiveWidth - 2
		m.directiveViewport.Height = m.height - 3
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 2
		m.ready = true
		m.writeContent()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.adjustTrust(-TrustStep)
			m.status = ""
			m.compose()
			return m, nil
		case "right", "l":
			m.adjustTrust(TrustStep)
			m.status = ""
			m.compose()
			return m, nil
		case "o":
			m.cycleOverride()
			m.status = ""
			m.compose()
			return m, nil
		case "r":
			m.seed++
			m.status = ""
			m.compose()
			return m, nil
		case "c":
			return m, m.copyDirective()
		}

	case copiedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Copy failed: " + msg.err.Error())
		} else {
			m.status = allowStyle.Render("Directive copied")
		}
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil
	}

	m.directiveViewport, dvCmd = m.directiveViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(dvCmd, mvCmd)
}

func (m Inspector) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	directiveWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - directiveWidth - 6

	directivePanel := directivePanelStyle.Width(directiveWidth).Height(m.height - 1).Render(
		m.directiveViewport.View(),
	)
	separator := separatorStyle.Render(strings.Repeat("│\n", max(m.height-1, 0)))

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 1).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, directivePanel, separator, metaPanel)
}
