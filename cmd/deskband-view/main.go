// deskband-view is an interactive viewer for a running deskbandd: it polls
// the label state over the control socket, previews the band, and accepts
// raw protocol commands.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csm10495/deskband/pkg/client"
	"github.com/csm10495/deskband/pkg/paths"
	"github.com/csm10495/deskband/pkg/protocol"
	"github.com/csm10495/deskband/pkg/render"
	"github.com/csm10495/deskband/pkg/store"
)

var (
	socketPath = flag.String("socket", paths.SocketPath(), "daemon control socket")
	interval   = flag.Duration("interval", 500*time.Millisecond, "poll interval")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	bandStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	dimStyle   = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
)

type tickMsg time.Time

type model struct {
	c     *client.Client
	input textinput.Model

	labels        []store.Label
	width, height int
	target        string

	lastCommand string
	lastReply   string
	err         error
}

func newModel(c *client.Client) model {
	input := textinput.New()
	input.Placeholder = "protocol command, e.g. SET,RGB,255,0,0"
	input.Focus()
	return model{c: c, input: input, width: 80, height: 1}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tick(), textinput.Blink)
}

func tick() tea.Cmd {
	return tea.Tick(*interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			command := strings.TrimSpace(m.input.Value())
			if command != "" {
				m.sendRaw(command)
				m.input.SetValue("")
			}
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tick()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sendRaw forwards one typed command verbatim.
func (m *model) sendRaw(command string) {
	m.lastCommand = command
	status, fields, err := m.c.Send(command)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	if len(fields) > 0 {
		m.lastReply = status + protocol.Delimiter + strings.Join(fields, protocol.Delimiter)
	} else {
		m.lastReply = status
	}
}

// refresh sweeps the daemon's label state. The sweep retargets each index
// in turn, so the controller's explicit target is saved first and restored
// after.
func (m *model) refresh() {
	count, err := m.getInt(protocol.KeyTextInfoCount)
	if err != nil {
		m.err = err
		return
	}
	width, err := m.getInt(protocol.KeyWidth)
	if err != nil {
		m.err = err
		return
	}
	height, err := m.getInt(protocol.KeyHeight)
	if err != nil {
		m.err = err
		return
	}

	_, targetFields, err := m.c.Send(protocol.VerbGet, protocol.KeyTextInfoTarget)
	if err != nil || len(targetFields) == 0 {
		m.err = err
		return
	}
	savedTarget := targetFields[0]

	labels := make([]store.Label, 0, count)
	for i := 0; i < count; i++ {
		if err := m.c.SendOK(protocol.VerbSet, protocol.KeyTextInfoTarget, strconv.Itoa(i)); err != nil {
			m.err = err
			break
		}
		label, err := m.fetchLabel()
		if err != nil {
			m.err = err
			break
		}
		labels = append(labels, label)
	}

	// restore the target even if the sweep broke partway
	if savedTarget == protocol.TargetUnset {
		m.c.SendOK(protocol.VerbSet, protocol.KeyTextInfoTarget)
	} else {
		m.c.SendOK(protocol.VerbSet, protocol.KeyTextInfoTarget, savedTarget)
	}

	m.labels = labels
	m.width, m.height = width, height
	m.target = savedTarget
	m.err = nil
}

func (m *model) getInt(key string) (int, error) {
	status, fields, err := m.c.Send(protocol.VerbGet, key)
	if err != nil {
		return 0, err
	}
	if status != protocol.StatusOK || len(fields) == 0 {
		return 0, fmt.Errorf("GET %s replied %s", key, status)
	}
	return strconv.Atoi(fields[0])
}

func (m *model) fetchLabel() (store.Label, error) {
	var label store.Label
	status, rgb, err := m.c.Send(protocol.VerbGet, protocol.KeyRGB)
	if err != nil {
		return label, err
	}
	if status != protocol.StatusOK || len(rgb) < 3 {
		return label, fmt.Errorf("GET RGB replied %s", status)
	}
	label.Red, _ = strconv.Atoi(rgb[0])
	label.Green, _ = strconv.Atoi(rgb[1])
	label.Blue, _ = strconv.Atoi(rgb[2])

	_, text, err := m.c.Send(protocol.VerbGet, protocol.KeyText)
	if err != nil {
		return label, err
	}
	if len(text) > 0 {
		label.Text = text[0]
	}

	status, xy, err := m.c.Send(protocol.VerbGet, protocol.KeyXY)
	if err != nil {
		return label, err
	}
	if status != protocol.StatusOK || len(xy) < 2 {
		return label, fmt.Errorf("GET XY replied %s", status)
	}
	label.X, _ = strconv.Atoi(xy[0])
	label.Y, _ = strconv.Atoi(xy[1])
	return label, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("deskband"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %dx%d  target=%s  labels=%d", m.width, m.height, m.target, len(m.labels))))
	b.WriteString("\n")

	band := strings.Join(render.ComposeBand(m.labels, m.width, m.height), "\n")
	b.WriteString(bandStyle.Render(band))
	b.WriteString("\n")

	for i, label := range m.labels {
		swatch := lipgloss.NewStyle().
			Foreground(lipgloss.Color(render.HexColor(label.Red, label.Green, label.Blue))).
			Render("■")
		b.WriteString(fmt.Sprintf("%2d %s (%d,%d) %q\n", i, swatch, label.X, label.Y, label.Text))
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.lastCommand != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("> %s → %s", m.lastCommand, m.lastReply)))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("enter: send  esc: quit"))
	return b.String()
}

func main() {
	flag.Parse()

	c, err := client.Dial(*socketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deskband-view: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	if _, err := tea.NewProgram(newModel(c)).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "deskband-view: %v\n", err)
		os.Exit(1)
	}
}
