package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetActionKey(t *testing.T) {
	tests := []struct {
		name   string
		kb     *KeyBindingsConfig
		action string
		want   string
	}{
		{"primary default", DefaultKeybindings(), "new_chat", "alt+n"},
		{"secondary letter", DefaultKeybindings(), "scroll_to_bottom", "alt+G"},
		{"no modifier", DefaultKeybindings(), "sidebar_rename", "r"},
		{"unknown", DefaultKeybindings(), "launch_rockets", ""},
		{
			"ctrl modifiers",
			&KeyBindingsConfig{Modifiers: ModifierConfig{Primary: "ctrl", Secondary: "ctrl+shift"}},
			"logout", "ctrl+L",
		},
		{
			"override wins",
			&KeyBindingsConfig{Actions: map[string]string{"quit": "ctrl+shift+q"}},
			"quit", "ctrl+shift+q",
		},
		{
			"secondary j",
			&KeyBindingsConfig{Actions: map[string]string{}},
			"half_page_down", "alt+J",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kb.GetActionKey(tt.action); got != tt.want {
				t.Errorf("GetActionKey(%q) = %q, want %q", tt.action, got, tt.want)
			}
		})
	}

	kb := DefaultKeybindings()
	if got := kb.SecondaryKey("down"); got != "alt+shift+down" {
		t.Errorf("SecondaryKey(down) = %q", got)
	}
}

func TestDisplayActionKey(t *testing.T) {
	kb := DefaultKeybindings()
	tests := map[string]string{
		"scroll_to_bottom": "Alt+Shift+G",
		"new_chat":         "Alt+N",
		"next_page":        "Alt+Right",
		"sidebar_open":     "Enter",
	}
	for action, want := range tests {
		if got := kb.DisplayActionKey(action); got != want {
			t.Errorf("DisplayActionKey(%q) = %q, want %q", action, got, want)
		}
	}
}

func TestKeybindingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		mods     ModifierConfig
		wantOK   bool
		wantWarn bool
	}{
		{"default", ModifierConfig{}, true, false},
		{"ctrl warns", ModifierConfig{Primary: "ctrl", Secondary: "ctrl+shift"}, true, true},
		{"shift alone", ModifierConfig{Primary: "shift", Secondary: "alt"}, false, true},
		{"same modifiers", ModifierConfig{Primary: "alt", Secondary: "alt"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := &KeyBindingsConfig{Modifiers: tt.mods}
			ok, msg := kb.Validate()
			if ok != tt.wantOK || (msg != "") != tt.wantWarn {
				t.Errorf("Validate() = %v, %q", ok, msg)
			}
		})
	}
}

func TestLoadKeybindings(t *testing.T) {
	dir := t.TempDir()

	kb, err := LoadKeybindings(dir)
	if err != nil {
		t.Fatalf("LoadKeybindings() error = %v", err)
	}
	if kb.Primary() != "alt" {
		t.Errorf("Primary() = %q", kb.Primary())
	}
	if !FileExists(filepath.Join(dir, keybindingsFile)) {
		t.Fatal("template not written")
	}

	custom := "[modifiers]\nprimary = \"ctrl\"\n\n[actions]\nexport_csv = \"ctrl+x\"\n"
	if err := os.WriteFile(filepath.Join(dir, keybindingsFile), []byte(custom), 0600); err != nil {
		t.Fatal(err)
	}
	kb, err = LoadKeybindings(dir)
	if err != nil {
		t.Fatal(err)
	}
	if kb.GetActionKey("new_chat") != "ctrl+n" || kb.GetActionKey("export_csv") != "ctrl+x" {
		t.Errorf("custom bindings not applied: %+v", kb)
	}
	if kb.Secondary() != "alt+shift" {
		t.Errorf("missing secondary should default, got %q", kb.Secondary())
	}
}

func TestActionsSorted(t *testing.T) {
	names := Actions()
	if len(names) != len(actionRegistry) {
		t.Fatalf("len = %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("not sorted at %d: %v", i, names)
		}
	}
}
