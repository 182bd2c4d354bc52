package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"refu/internal/driver"
)

var (
	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type moduleDoneMsg struct {
	path string
	ok   bool
}

type totalMsg struct {
	total int
}

type runDoneMsg struct {
	result *driver.Result
}

type progressModel struct {
	done   []moduleDoneMsg
	total  int
	prog   progress.Model
	result *driver.Result
}

func newProgressModel() progressModel {
	return progressModel{prog: progress.New(progress.WithDefaultGradient())}
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case totalMsg:
		m.total = msg.total
		return m, nil
	case moduleDoneMsg:
		m.done = append(m.done, msg)
		if m.total > 0 {
			pct := float64(len(m.done)) / float64(m.total)
			return m, m.prog.SetPercent(pct)
		}
		return m, nil
	case runDoneMsg:
		m.result = msg.result
		return m, tea.Quit
	case progress.FrameMsg:
		progModel, cmd := m.prog.Update(msg)
		m.prog = progModel.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	var out string
	for _, d := range m.done {
		if d.ok {
			out += okStyle.Render("✓ "+d.path) + "\n"
		} else {
			out += errStyle.Render("✗ "+d.path) + "\n"
		}
	}
	out += dimStyle.Render(fmt.Sprintf("%d/%d modules compiled", len(m.done), m.total)) + "\n"
	if m.result == nil {
		out += m.prog.View()
	} else {
		out += m.prog.ViewAs(1.0)
	}
	return out
}

// runWithProgress drives driver.Run on a background goroutine, feeding a
// bubbletea program one totalMsg (once discovery finishes) and one
// moduleDoneMsg per finished module, so the terminal shows a live
// modules-done/total progress bar instead of a single blocking pause.
func runWithProgress(ctx context.Context, opts driver.Options) *driver.Result {
	p := tea.NewProgram(newProgressModel())

	opts.OnModulesDiscovered = func(total int) {
		p.Send(totalMsg{total: total})
	}
	opts.OnModuleDone = func(path string, res *driver.ModuleResult) {
		p.Send(moduleDoneMsg{path: path, ok: res.RIR != nil && !res.Bag.HasErrors()})
	}

	resultCh := make(chan *driver.Result, 1)
	go func() {
		result := driver.Run(ctx, opts)
		resultCh <- result
		p.Send(runDoneMsg{result: result})
	}()

	if _, err := p.Run(); err != nil {
		return <-resultCh
	}
	return <-resultCh
}
