package downloader

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const progressPadding = 2

// tickMsg drives periodic progress refreshes.
type tickMsg time.Time

// doneMsg signals that the transfer finished (either way).
type doneMsg struct{}

// progressModel is the Bubble Tea model for the HTTP transfer progress bar.
type progressModel struct {
	progress   progress.Model
	totalBytes int64
	received   int64
	done       bool
	mu         sync.Mutex
	keys       keyMap
}

type keyMap struct {
	quit key.Binding
}

func newProgressModel(totalBytes int64) *progressModel {
	return &progressModel{
		progress:   progress.New(progress.WithDefaultGradient()),
		totalBytes: totalBytes,
		keys: keyMap{
			quit: key.NewBinding(key.WithKeys("ctrl+c")),
		},
	}
}

// add records received bytes from a transfer goroutine.
func (m *progressModel) add(n int64) {
	m.mu.Lock()
	m.received += n
	m.mu.Unlock()
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.progress.Init())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch msg := msg.(type) {
	case tickMsg:
		if m.done {
			return m, tea.Quit
		}
		if m.totalBytes > 0 {
			percent := float64(m.received) / float64(m.totalBytes)
			if percent > 1.0 {
				percent = 1.0
			}
			cmd := m.progress.SetPercent(percent)
			return m, tea.Batch(cmd, tickCmd())
		}
		return m, tickCmd()

	case doneMsg:
		m.done = true
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		var newModel tea.Model
		newModel, cmd = m.progress.Update(msg)
		m.progress = newModel.(progress.Model)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	default:
		return m, nil
	}
}

func (m *progressModel) View() string {
	pad := strings.Repeat(" ", progressPadding)
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))

	return "\n" +
		pad + statusStyle.Render("Downloading...") + "\n\n" +
		pad + m.progress.View() + "\n\n" +
		pad + "Press Ctrl+C to quit"
}

// tickCmd schedules the next progress refresh.
func tickCmd() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
