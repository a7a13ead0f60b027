// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kiosk

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"

	"github.com/taibuivan/zled/internal/player"
)

// Controller accepts player events; *player.Session satisfies it.
type Controller interface {
	Send(context context.Context, event player.Event) error
}

type (
	snapshotMsg player.Snapshot
	endedMsg    struct{}
	sendErrMsg  struct{ err error }
)

// model is the terminal status view of a running session.
type model struct {
	context    context.Context
	controller Controller
	updates    <-chan player.Snapshot
	output     string

	keys     keymap
	help     help.Model
	progress progress.Model

	snapshot player.Snapshot
	lastErr  error
	width    int
}

func newModel(context context.Context, controller Controller, updates <-chan player.Snapshot, output string) model {
	return model{
		context:    context,
		controller: controller,
		updates:    updates,
		output:     output,
		keys:       newKeymap(),
		help:       help.New(),
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (m model) Init() tea.Cmd {
	return waitForSnapshot(m.updates)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(msg.Width-8, 10)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.next):
			return m, m.send(player.Next{})
		case key.Matches(msg, m.keys.prev):
			return m, m.send(player.Prev{})
		}
		return m, nil

	case snapshotMsg:
		m.snapshot = player.Snapshot(msg)
		return m, waitForSnapshot(m.updates)

	case sendErrMsg:
		m.lastErr = msg.err
		return m, nil

	case endedMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	title := "ZLED"
	if m.snapshot.ScreenName != "" {
		title += " ▸ " + m.snapshot.ScreenName
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if m.snapshot.Page == nil {
		message := m.snapshot.Message
		if message == "" {
			message = "Loading…"
		}
		b.WriteString(emptyStyle.Render(message))
		b.WriteString("\n")
	} else {
		b.WriteString(infoStyle.Render(m.snapshot.Info))
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(m.snapshot.Progress / 100))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%ds / %ds  frame #%d → %s",
			m.snapshot.State.ElapsedSeconds, m.snapshot.State.PageDurationSeconds, m.snapshot.FrameSeq, m.output)))
		b.WriteString("\n")
	}

	if m.snapshot.RenderFailed {
		b.WriteString(warningStyle.Render("Render failed, keeping the previous frame"))
		b.WriteString("\n")
	}
	if m.lastErr != nil {
		message := m.lastErr.Error()
		if m.width > 0 {
			message = wrap.String(message, max(m.width-4, 20))
		}
		b.WriteString(warningStyle.Render(message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return frameStyle.Render(b.String())
}

func (m model) send(event player.Event) tea.Cmd {
	return func() tea.Msg {
		if err := m.controller.Send(m.context, event); err != nil {
			return sendErrMsg{err: err}
		}
		return nil
	}
}

func waitForSnapshot(updates <-chan player.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-updates
		if !ok {
			return endedMsg{}
		}
		return snapshotMsg(snapshot)
	}
}
