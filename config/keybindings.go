package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const keybindingsFile = "keybindings.toml"

type KeyBindingsConfig struct {
	Modifiers ModifierConfig    `toml:"modifiers"`
	Actions   map[string]string `toml:"actions"`
}

type ModifierConfig struct {
	Primary   string `toml:"primary"`   // alt, ctrl, meta, super
	Secondary string `toml:"secondary"` // alt+shift, ctrl+shift
}

type modifierKind int

const (
	modNone modifierKind = iota
	modPrimary
	modSecondary
)

type actionDef struct {
	modifier modifierKind
	key      string
}

// actionRegistry holds the default binding for every action. Users override
// single actions in the [actions] table of keybindings.toml.
var actionRegistry = map[string]actionDef{
	// Chat screen
	"help":             {modPrimary, "h"},
	"new_chat":         {modPrimary, "n"},
	"focus_sidebar":    {modPrimary, "s"},
	"morning_coffee":   {modPrimary, "m"},
	"previous_actions": {modPrimary, "p"},
	"capabilities":     {modPrimary, "w"},
	"copy_message":     {modPrimary, "y"},
	"export_csv":       {modPrimary, "e"},
	"open_link":        {modPrimary, "o"},
	"logout":           {modSecondary, "l"},
	"quit":             {modPrimary, "q"},
	"clear_input":      {modPrimary, "u"},

	// Thread scrolling and message focus
	"scroll_down":      {modPrimary, "j"},
	"scroll_up":        {modPrimary, "k"},
	"half_page_down":   {modSecondary, "j"},
	"half_page_up":     {modSecondary, "k"},
	"scroll_to_top":    {modPrimary, "g"},
	"scroll_to_bottom": {modSecondary, "g"},
	"prev_message":     {modPrimary, "up"},
	"next_message":     {modPrimary, "down"},

	// Tables
	"next_page":   {modPrimary, "right"},
	"prev_page":   {modPrimary, "left"},
	"page_size":   {modPrimary, "z"},
	"next_table":  {modPrimary, "t"},
	"next_action": {modNone, "tab"},

	// Sidebar (focused, no modifier)
	"sidebar_down":   {modNone, "j"},
	"sidebar_up":     {modNone, "k"},
	"sidebar_search": {modNone, "/"},
	"sidebar_rename": {modNone, "r"},
	"sidebar_delete": {modNone, "d"},
	"sidebar_open":   {modNone, "enter"},
}

func DefaultKeybindings() *KeyBindingsConfig {
	return &KeyBindingsConfig{
		Modifiers: ModifierConfig{
			Primary:   "alt",
			Secondary: "alt+shift",
		},
	}
}

// Actions lists every bindable action name in sorted order
func Actions() []string {
	names := make([]string, 0, len(actionRegistry))
	for name := range actionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadKeybindings reads <dataDir>/keybindings.toml, writing the template on
// first run. Unknown action overrides are logged and ignored.
func LoadKeybindings(dataDir string) (*KeyBindingsConfig, error) {
	cfg := DefaultKeybindings()
	path := filepath.Join(dataDir, keybindingsFile)

	if !FileExists(path) {
		if err := writeTemplate(dataDir, path, GenerateKeybindingsTemplate()); err != nil {
			return nil, fmt.Errorf("failed to create keybindings: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse keybindings: %w", err)
	}
	for action := range cfg.Actions {
		if _, ok := actionRegistry[action]; !ok && DebugLog != nil {
			DebugLog.Printf("[Keybindings] Unknown action %q in %s", action, path)
		}
	}
	return cfg, nil
}

func GenerateKeybindingsTemplate() string {
	return `# sichat Keybindings Configuration
# Location: <data_directory>/keybindings.toml
# This file uses TOML format: https://toml.io

[modifiers]
primary = "alt"          # alt, ctrl, meta or super
secondary = "alt+shift"

# tmux users may prefer:
#   primary = "ctrl"
#   secondary = "ctrl+shift"

[actions]
# Override single actions here, for example:
#   new_chat = "ctrl+t"
#   export_csv = "ctrl+e"
#   quit = "ctrl+shift+q"
#
# Actions: help, new_chat, focus_sidebar, morning_coffee, previous_actions,
# capabilities, copy_message, export_csv, open_link, logout, quit,
# clear_input, scroll_down, scroll_up, half_page_down, half_page_up,
# scroll_to_top, scroll_to_bottom, prev_message, next_message, next_page,
# prev_page, page_size, next_table, next_action, sidebar_down, sidebar_up,
# sidebar_search, sidebar_rename, sidebar_delete, sidebar_open
`
}

func (kb *KeyBindingsConfig) Primary() string {
	if kb.Modifiers.Primary == "" {
		return "alt"
	}
	return kb.Modifiers.Primary
}

func (kb *KeyBindingsConfig) Secondary() string {
	if kb.Modifiers.Secondary == "" {
		return "alt+shift"
	}
	return kb.Modifiers.Secondary
}

// PrimaryKey returns e.g. "alt+s" for "s"
func (kb *KeyBindingsConfig) PrimaryKey(key string) string {
	return kb.Primary() + "+" + key
}

// SecondaryKey returns the binding under the secondary modifier. Terminals
// report shift+letter as the uppercase letter, so "alt+shift" with "g"
// becomes "alt+G". Named keys keep the explicit shift.
func (kb *KeyBindingsConfig) SecondaryKey(key string) string {
	secondary := kb.Secondary()
	if !isLowerLetter(key) || !strings.Contains(strings.ToLower(secondary), "shift") {
		return secondary + "+" + key
	}

	var mods []string
	for _, part := range strings.Split(secondary, "+") {
		if strings.ToLower(part) != "shift" {
			mods = append(mods, part)
		}
	}
	mods = append(mods, strings.ToUpper(key))
	return strings.Join(mods, "+")
}

func isLowerLetter(key string) bool {
	return len(key) == 1 && key[0] >= 'a' && key[0] <= 'z'
}

// GetActionKey returns the user's override or the registry default, or ""
// for an unknown action
func (kb *KeyBindingsConfig) GetActionKey(action string) string {
	if override := kb.Actions[action]; override != "" {
		return override
	}

	def, ok := actionRegistry[action]
	if !ok {
		return ""
	}
	switch def.modifier {
	case modPrimary:
		return kb.PrimaryKey(def.key)
	case modSecondary:
		return kb.SecondaryKey(def.key)
	default:
		return def.key
	}
}

// DisplayActionKey formats an action's binding for the help screen,
// e.g. "alt+G" -> "Alt+Shift+G"
func (kb *KeyBindingsConfig) DisplayActionKey(action string) string {
	key := kb.GetActionKey(action)
	if key == "" {
		return ""
	}
	return capitalizeKeybinding(key)
}

func capitalizeKeybinding(key string) string {
	parts := strings.Split(key, "+")
	hasShift := false
	for _, p := range parts {
		if strings.EqualFold(p, "shift") {
			hasShift = true
		}
	}

	var out []string
	for i, part := range parts {
		if part == "" {
			continue
		}
		if len(part) == 1 && part[0] >= 'A' && part[0] <= 'Z' && !hasShift && i > 0 {
			out = append(out, "Shift")
		}
		out = append(out, strings.ToUpper(part[:1])+part[1:])
	}
	return strings.Join(out, "+")
}

// Validate returns (ok, warning)
func (kb *KeyBindingsConfig) Validate() (bool, string) {
	primary := kb.Primary()
	secondary := kb.Secondary()

	if primary == "shift" || secondary == "shift" {
		return false, "Shift alone conflicts with typing"
	}
	if primary == secondary {
		return false, "Primary and secondary modifiers must differ"
	}
	if strings.Contains(primary, "ctrl") || strings.Contains(secondary, "ctrl") {
		return true, "Warning: Ctrl may conflict with terminal shortcuts (Ctrl+C, Ctrl+Z, Ctrl+D)"
	}
	return true, ""
}
