package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sichat/config"
	"sichat/model"
)

// Login form fields in focus order. The remember toggle sits after the
// three text inputs.
const (
	fieldUserID = iota
	fieldTenantID
	fieldAPIKey
	fieldRemember
	loginFieldCount
)

const (
	requiredUserID   = "User ID is required"
	requiredTenantID = "Tenant ID is required"
	requiredAPIKey   = "API key is required"
	loginFailed      = "Login failed. Check your user ID, tenant ID and API key."
)

type loginForm struct {
	inputs   [3]textinput.Model
	remember bool
	focus    int
	errs     [3]string
	err      string
	loading  bool
}

func newLoginForm() loginForm {
	var f loginForm

	labels := [3]string{"user@example.com", "Tenant ID", "API key"}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.Width = 40
		in.CharLimit = 256
		in.Prompt = ""
		f.inputs[i] = in
	}
	f.inputs[fieldAPIKey].EchoMode = textinput.EchoPassword
	f.inputs[fieldAPIKey].EchoCharacter = '•'
	f.inputs[fieldUserID].Focus()
	return f
}

// validateLogin returns one message per empty required field
func validateLogin(userID, tenantID, apiKey string) [3]string {
	var errs [3]string
	if strings.TrimSpace(userID) == "" {
		errs[fieldUserID] = requiredUserID
	}
	if strings.TrimSpace(tenantID) == "" {
		errs[fieldTenantID] = requiredTenantID
	}
	if strings.TrimSpace(apiKey) == "" {
		errs[fieldAPIKey] = requiredAPIKey
	}
	return errs
}

func (f loginForm) values() (userID, tenantID, apiKey string) {
	return strings.TrimSpace(f.inputs[fieldUserID].Value()),
		strings.TrimSpace(f.inputs[fieldTenantID].Value()),
		strings.TrimSpace(f.inputs[fieldAPIKey].Value())
}

func (f *loginForm) setFocus(i int) tea.Cmd {
	f.focus = (i + loginFieldCount) % loginFieldCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *loginForm) prefill(msg model.RememberedLoginMsg) {
	if !msg.Found {
		return
	}
	f.inputs[fieldUserID].SetValue(msg.Username)
	f.inputs[fieldTenantID].SetValue(msg.TenantID)
	f.inputs[fieldAPIKey].SetValue(msg.APIKey)
	f.remember = true
}

// reset keeps remembered values but drops the key when it was not remembered
func (f *loginForm) reset() {
	if !f.remember {
		f.inputs[fieldAPIKey].SetValue("")
	}
	f.errs = [3]string{}
	f.loading = false
	f.setFocus(fieldUserID)
}

func (f loginForm) valid() bool {
	for _, e := range f.errs {
		if e != "" {
			return false
		}
	}
	return true
}

func (a App) updateLogin(msg tea.KeyMsg) (App, tea.Cmd) {
	if a.login.loading {
		return a, nil
	}
	f := &a.login

	switch msg.String() {
	case "tab", "down":
		cmd := f.setFocus(f.focus + 1)
		return a, cmd
	case "shift+tab", "up":
		cmd := f.setFocus(f.focus - 1)
		return a, cmd
	case " ":
		if f.focus == fieldRemember {
			f.remember = !f.remember
			return a, nil
		}
	case "enter":
		if f.focus == fieldRemember {
			f.remember = !f.remember
			return a, nil
		}
		userID, tenantID, apiKey := f.values()
		f.errs = validateLogin(userID, tenantID, apiKey)
		f.err = ""
		if !f.valid() {
			for i, e := range f.errs {
				if e != "" {
					cmd := f.setFocus(i)
					return a, cmd
				}
			}
		}
		f.loading = true
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Logging in as %s (tenant %s)", userID, tenantID)
		}
		return a, tea.Batch(a.dataModel.Login(userID, tenantID, apiKey, f.remember), a.spinner.Tick)
	}

	if f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		f.errs[f.focus] = ""
		return a, cmd
	}
	return a, nil
}

func (a App) renderLogin() string {
	f := a.login
	formWidth := 52
	if a.width < formWidth+4 {
		formWidth = max(a.width-4, 20)
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor).
		Render("IBM Storage Insights Chatbot")

	labels := [3]string{"User ID", "Tenant ID", "API key"}
	var lines []string
	lines = append(lines, title, "")

	if a.dataModel.SessionExpired {
		lines = append(lines, ErrorStyle.Render(model.APIKeyExpiredMessage), "")
	}
	if f.err != "" {
		lines = append(lines, ErrorStyle.Render(wordWrap(f.err, formWidth)), "")
	}

	for i, in := range f.inputs {
		label := DimStyle.Render(labels[i] + " *")
		if f.focus == i {
			label = SelectedStyle.Render(labels[i] + " *")
		}
		field := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(dimColor).
			Width(formWidth).
			Render(in.View())
		lines = append(lines, label, field)
		if f.errs[i] != "" {
			lines = append(lines, ErrorStyle.Render("⚠ "+f.errs[i]))
		}
		lines = append(lines, "")
	}

	box := "[ ]"
	if f.remember {
		box = "[x]"
	}
	remember := box + " Remember me"
	if f.focus == fieldRemember {
		remember = SelectedStyle.Render(remember)
	}
	lines = append(lines, remember, "")

	if f.loading {
		lines = append(lines, a.spinner.View()+" Logging in...")
	} else {
		lines = append(lines, HelpStyle.Render(FormatFooter("Tab", "Next field", "Enter", "Log in", "Ctrl+C", "Quit")))
	}

	content := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}
