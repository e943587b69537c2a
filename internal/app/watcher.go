package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/notes-layout/internal/config"
)

// settingsTickMsg triggers a poll of the config file.
type settingsTickMsg time.Time

func (m *Model) scheduleSettingsTick() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return tea.Tick(config.DefaultWatchInterval, func(t time.Time) tea.Msg {
		return settingsTickMsg(t)
	})
}

// handleSettingsTick reloads the layout rules when settings changed on disk.
func (m *Model) handleSettingsTick(settingsTickMsg) (tea.Model, tea.Cmd) {
	keys, err := m.watcher.Poll()
	if err != nil {
		appLog.Warn("poll settings", "error", err)
		return m, m.scheduleSettingsTick()
	}
	if len(keys) > 0 {
		m.engine.OnSettingsChanged(context.Background(), keys)
		m.status = "Settings reloaded"
	}
	return m, m.scheduleSettingsTick()
}
