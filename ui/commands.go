package ui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"sichat/config"
	"sichat/grid"
	"sichat/model"
)

type linkOpenedMsg struct {
	URL string
	Err error
}

func copyToClipboard(what, text string) tea.Cmd {
	return func() tea.Msg {
		return model.ClipboardMsg{What: what, Err: clipboard.WriteAll(text)}
	}
}

// exportDir is ~/Downloads when it exists, else the working directory
func exportDir() string {
	if home := config.GetHomeDir(); home != "" {
		dir := filepath.Join(home, "Downloads")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func exportTable(t grid.Table, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := grid.WriteCSV(t, dir)
		return model.CSVExportedMsg{Path: path, Err: err}
	}
}

// openURL opens a link in the default browser
func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", `""`, url)
		case "darwin":
			cmd = exec.Command("open", url)
		case "linux", "freebsd", "openbsd":
			cmd = exec.Command("xdg-open", url)
		default:
			return linkOpenedMsg{URL: url, Err: fmt.Errorf("unsupported platform: %s", runtime.GOOS)}
		}
		if err := cmd.Start(); err != nil {
			return linkOpenedMsg{URL: url, Err: fmt.Errorf("failed to open link: %w", err)}
		}
		return linkOpenedMsg{URL: url}
	}
}

// savePageSize keeps the chosen rows per page as the default for new tables
func savePageSize(dataDir string, size int) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.LoadUserConfig(dataDir)
		if err == nil {
			cfg.Display.PageSize = size
			err = config.SaveUserConfig(cfg, dataDir)
		}
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Failed to save page size: %v", err)
		}
		return nil
	}
}
