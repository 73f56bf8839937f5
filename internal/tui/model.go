package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/reeflink/mobiusctl/internal/ble"
	"github.com/reeflink/mobiusctl/internal/mobius"
)

// view identifies which screen the TUI is showing.
type view int

const (
	viewScanning view = iota
	viewDevices
	viewConnecting
	viewConnected
	viewSceneInput
)

// Model is the top-level bubbletea model.
type Model struct {
	keys   KeyMap
	styles Styles

	help    help.Model
	spinner spinner.Model
	input   textinput.Model

	view    view
	width   int
	height  int
	address string // preset address skips the device picker

	devices []string
	cursor  int

	session *mobius.Session
	scene   int // -1 = unknown
	busy    bool
	status  string
	errText string
}

// Async operation results. Session methods block, so every device
// operation runs inside a tea.Cmd and reports back with one of these.
type scanDoneMsg struct {
	addresses []string
	err       error
}

type connectedMsg struct {
	session *mobius.Session
	err     error
}

type sceneLoadedMsg struct {
	id  uint16
	err error
}

type actionDoneMsg struct {
	label string
	err   error
}

func NewModel(address string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	in := textinput.New()
	in.Placeholder = "scene id"
	in.CharLimit = 5
	in.Width = 10

	m := Model{
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
		help:    help.New(),
		spinner: sp,
		input:   in,
		address: address,
		scene:   -1,
	}
	if address != "" {
		m.view = viewConnecting
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.address != "" {
		return tea.Batch(m.spinner.Tick, connectCmd(m.address))
	}
	return tea.Batch(m.spinner.Tick, scanCmd())
}

// scanCmd scans for nearby devices.
func scanCmd() tea.Cmd {
	return func() tea.Msg {
		adapter := ble.New()
		if err := adapter.Enable(); err != nil {
			return scanDoneMsg{err: err}
		}
		addresses, err := mobius.ScanForDevices(adapter, mobius.Config{})
		return scanDoneMsg{addresses: addresses, err: err}
	}
}

// connectCmd dials the device and loads the current scene.
func connectCmd(address string) tea.Cmd {
	return func() tea.Msg {
		adapter := ble.New()
		if err := adapter.Enable(); err != nil {
			return connectedMsg{err: err}
		}
		session := mobius.NewSession(adapter, address, mobius.Config{})
		if err := session.Connect(); err != nil {
			return connectedMsg{err: err}
		}
		return connectedMsg{session: session}
	}
}

func loadSceneCmd(session *mobius.Session) tea.Cmd {
	return func() tea.Msg {
		id, err := session.GetCurrentScene()
		return sceneLoadedMsg{id: id, err: err}
	}
}

func setSceneCmd(session *mobius.Session, id uint16) tea.Cmd {
	return func() tea.Msg {
		err := session.SetScene(id)
		return actionDoneMsg{label: fmt.Sprintf("Scene set to %d", id), err: err}
	}
}

func feedCmd(session *mobius.Session) tea.Cmd {
	return func() tea.Msg {
		err := session.SetFeedScene()
		return actionDoneMsg{label: "Feed mode started", err: err}
	}
}

func scheduleCmd(session *mobius.Session) tea.Cmd {
	return func() tea.Msg {
		err := session.RunSchedule()
		return actionDoneMsg{label: "Schedule resumed", err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scanDoneMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			m.view = viewDevices
			return m, nil
		}
		m.devices = msg.addresses
		m.cursor = 0
		m.view = viewDevices
		if len(m.devices) == 0 {
			m.errText = "no devices found"
		} else {
			m.errText = ""
		}
		return m, nil

	case connectedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			m.view = viewDevices
			return m, nil
		}
		m.session = msg.session
		m.view = viewConnected
		m.busy = true
		m.status = "Reading scene"
		m.errText = ""
		return m, loadSceneCmd(m.session)

	case sceneLoadedMsg:
		m.busy = false
		m.status = ""
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.scene = int(msg.id)
		m.errText = ""
		return m, nil

	case actionDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = ""
			m.errText = msg.err.Error()
			return m, nil
		}
		m.status = msg.label
		m.errText = ""
		// Scene changes invalidate the cached scene; re-read it.
		m.busy = true
		return m, loadSceneCmd(m.session)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && m.view != viewSceneInput {
		m.disconnect()
		return m, tea.Quit
	}

	switch m.view {
	case viewDevices:
		return m.handleDevicesKey(msg)
	case viewConnected:
		return m.handleConnectedKey(msg)
	case viewSceneInput:
		return m.handleSceneInputKey(msg)
	}
	// Scanning and connecting views only react to quit.
	return m, nil
}

func (m Model) handleDevicesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.devices)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		m.view = viewScanning
		m.errText = ""
		return m, tea.Batch(m.spinner.Tick, scanCmd())
	case key.Matches(msg, m.keys.Select):
		if len(m.devices) == 0 {
			return m, nil
		}
		m.view = viewConnecting
		return m, tea.Batch(m.spinner.Tick, connectCmd(m.devices[m.cursor]))
	}
	return m, nil
}

func (m Model) handleConnectedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Refresh):
		m.busy = true
		m.status = "Reading scene"
		return m, loadSceneCmd(m.session)
	case key.Matches(msg, m.keys.Feed):
		m.busy = true
		m.status = "Starting feed mode"
		return m, feedCmd(m.session)
	case key.Matches(msg, m.keys.Schedule):
		m.busy = true
		m.status = "Resuming schedule"
		return m, scheduleCmd(m.session)
	case key.Matches(msg, m.keys.SetScene):
		m.view = viewSceneInput
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Back):
		m.disconnect()
		m.scene = -1
		m.view = viewScanning
		return m, tea.Batch(m.spinner.Tick, scanCmd())
	}
	return m, nil
}

func (m Model) handleSceneInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = viewConnected
		m.input.Blur()
		return m, nil
	case msg.Type == tea.KeyEnter:
		id, err := strconv.ParseUint(strings.TrimSpace(m.input.Value()), 10, 16)
		if err != nil {
			m.errText = "scene id must be a number between 0 and 65535"
			return m, nil
		}
		m.view = viewConnected
		m.input.Blur()
		m.busy = true
		m.status = fmt.Sprintf("Setting scene %d", id)
		return m, setSceneCmd(m.session, uint16(id))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) disconnect() {
	if m.session != nil {
		m.session.Disconnect()
		m.session = nil
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("mobiusctl"))
	b.WriteString("\n")

	switch m.view {
	case viewScanning:
		b.WriteString(m.styles.Content.Render(
			fmt.Sprintf("%s Scanning for Mobius devices...", m.spinner.View())))
	case viewDevices:
		b.WriteString(m.viewDeviceList())
	case viewConnecting:
		b.WriteString(m.styles.Content.Render(
			fmt.Sprintf("%s Connecting...", m.spinner.View())))
	case viewConnected, viewSceneInput:
		b.WriteString(m.viewDevice())
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("Error: " + m.errText))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))

	return m.styles.App.Render(b.String())
}

func (m Model) viewDeviceList() string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("Select a device"))
	b.WriteString("\n\n")

	if len(m.devices) == 0 {
		b.WriteString(m.styles.Muted.Render("No devices found. Press r to rescan."))
		return m.styles.Content.Render(b.String())
	}

	for i, addr := range m.devices {
		if i == m.cursor {
			b.WriteString(m.styles.MenuItemSelected.Render("> " + addr))
		} else {
			b.WriteString(m.styles.MenuItem.Render("  " + addr))
		}
		b.WriteString("\n")
	}
	return m.styles.Content.Render(b.String())
}

func (m Model) viewDevice() string {
	var b strings.Builder

	scene := "unknown"
	if m.scene >= 0 {
		scene = strconv.Itoa(m.scene)
	}
	b.WriteString(m.styles.Label.Render("Device"))
	b.WriteString(m.styles.Value.Render(m.session.Address()))
	b.WriteString("\n")
	b.WriteString(m.styles.Label.Render("Scene"))
	b.WriteString(m.styles.Highlight.Render(scene))
	b.WriteString("\n")

	if m.view == viewSceneInput {
		b.WriteString("\n")
		b.WriteString(m.styles.Label.Render("New scene"))
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("enter to apply, esc to cancel"))
	} else if m.busy {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s %s...", m.spinner.View(), m.status))
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render(m.status))
	}

	// Status bar
	bar := m.styles.StatusKey.Render("state") +
		m.styles.StatusOnline.Render("connected") +
		m.styles.StatusKey.Render(" keys") +
		m.styles.StatusValue.Render("r refresh  s set scene  f feed  g schedule")
	b.WriteString("\n")
	b.WriteString(m.styles.StatusBar.Render(bar))

	return m.styles.Content.Render(b.String())
}
