package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Action names understood by the desktop.
const (
	ActionFocusNext      = "focus_next"
	ActionFocusPrev      = "focus_prev"
	ActionMinimize       = "minimize_window"
	ActionMaximize       = "maximize_window"
	ActionClose          = "close_window"
	ActionRestoreAll     = "restore_all"
	ActionToggleHelp     = "toggle_help"
	ActionQuit           = "quit"
	actionOpenWindowBase = "open_window_"
)

// OpenWindowAction returns the action that opens the n-th declared window,
// counting from 1.
func OpenWindowAction(n int) string {
	return fmt.Sprintf("%s%d", actionOpenWindowBase, n)
}

// OpenWindowIndex returns the 1-based window number of an open_window_N
// action.
func OpenWindowIndex(action string) (int, bool) {
	rest, ok := strings.CutPrefix(action, actionOpenWindowBase)
	if !ok || len(rest) != 1 || rest[0] < '1' || rest[0] > '9' {
		return 0, false
	}
	return int(rest[0] - '0'), true
}

// ActionDescriptions holds the help text for every action.
var ActionDescriptions = map[string]string{
	ActionFocusNext:  "Focus next window",
	ActionFocusPrev:  "Focus previous window",
	ActionMinimize:   "Minimize focused window",
	ActionMaximize:   "Maximize or restore focused window",
	ActionClose:      "Close focused window",
	ActionRestoreAll: "Restore all minimized windows",
	ActionToggleHelp: "Toggle help",
	ActionQuit:       "Quit",
}

func init() {
	for i := 1; i <= 9; i++ {
		ActionDescriptions[OpenWindowAction(i)] = fmt.Sprintf("Open window %d", i)
	}
}

// DefaultKeybindings returns the stock action to keys map.
func DefaultKeybindings() map[string][]string {
	kb := map[string][]string{
		ActionFocusNext:  {"tab"},
		ActionFocusPrev:  {"shift+tab"},
		ActionMinimize:   {"m"},
		ActionMaximize:   {"f"},
		ActionClose:      {"x"},
		ActionRestoreAll: {"M", "shift+m"},
		ActionToggleHelp: {"?"},
		ActionQuit:       {"q", "ctrl+c"},
	}
	for i := 1; i <= 9; i++ {
		kb[OpenWindowAction(i)] = []string{fmt.Sprint(i)}
	}
	return kb
}

// KeybindRegistry resolves pressed keys to actions. User bindings replace
// the defaults per action; actions the user does not mention keep theirs.
type KeybindRegistry struct {
	actionToKeys map[string][]string
	keyToAction  map[string]string
	normalizer   *KeyNormalizer
}

// NewKeybindRegistry builds a registry from cfg. A nil cfg uses the
// defaults.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		actionToKeys: DefaultKeybindings(),
		keyToAction:  make(map[string]string),
		normalizer:   NewKeyNormalizer(),
	}

	if cfg != nil {
		for action, keys := range cfg.Keybindings.Desktop {
			if _, known := ActionDescriptions[action]; !known {
				logger.Warn("ignoring keybinding for unknown action", "action", action)
				continue
			}
			r.actionToKeys[action] = keys
		}
	}

	// Sorted so that a key bound twice always resolves the same way.
	for _, action := range slices.Sorted(maps.Keys(r.actionToKeys)) {
		for _, key := range r.actionToKeys[action] {
			if ok, reason := r.normalizer.ValidateKey(key); !ok {
				logger.Warn("ignoring invalid key", "action", action, "key", key, "reason", reason)
				continue
			}
			for _, k := range r.normalizer.NormalizeKey(key) {
				if other, dup := r.keyToAction[k]; dup && other != action {
					logger.Warn("key bound twice", "key", key, "kept", other, "ignored", action)
					continue
				}
				r.keyToAction[k] = action
			}
		}
	}
	return r
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionToKeys[action]
}

// GetAction returns the action bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	if a, ok := r.keyToAction[key]; ok {
		return a
	}
	for _, k := range r.normalizer.NormalizeKey(key) {
		if a, ok := r.keyToAction[k]; ok {
			return a
		}
	}
	return ""
}

// GetKeysForDisplay returns the keys bound to action formatted for help
// text, e.g. "q, Ctrl+C".
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.actionToKeys[action]
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		d := FormatKeyForDisplay(k)
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return strings.Join(out, ", ")
}

// Actions returns every bound action, sorted.
func (r *KeybindRegistry) Actions() []string {
	return slices.Sorted(maps.Keys(r.actionToKeys))
}

// FormatKeyForDisplay capitalizes modifiers and named keys: "shift+tab"
// becomes "Shift+Tab", "M" stays "M".
func FormatKeyForDisplay(key string) string {
	parts := strings.Split(key, "+")
	for i, p := range parts {
		if len(p) > 1 {
			parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
		} else if i > 0 {
			parts[i] = strings.ToUpper(p)
		}
	}
	return strings.Join(parts, "+")
}

var modifierOrder = []string{"ctrl", "alt", "shift", "super"}

var keyAliases = map[string]string{
	"return": "enter",
	"escape": "esc",
	"del":    "delete",
	" ":      "space",
}

// KeyNormalizer canonicalizes key strings so that "Ctrl+A", "ctrl+a" and
// "CTRL+a" resolve to the same binding.
type KeyNormalizer struct{}

// NewKeyNormalizer returns a KeyNormalizer.
func NewKeyNormalizer() *KeyNormalizer {
	return &KeyNormalizer{}
}

// NormalizeKey returns the canonical form of key followed by any alias of
// it. Modifiers are lowercased and ordered ctrl, alt, shift, super. A lone
// printable character keeps its case.
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	if key == "" {
		return nil
	}
	if len([]rune(key)) == 1 {
		return []string{key}
	}

	mods, base := splitKey(key)
	var ordered []string
	for _, m := range modifierOrder {
		for _, p := range mods {
			if strings.EqualFold(p, m) {
				ordered = append(ordered, m)
				break
			}
		}
	}
	if len(base) > 1 || len(ordered) > 0 {
		base = strings.ToLower(base)
	}

	join := func(b string) string {
		return strings.Join(append(slices.Clone(ordered), b), "+")
	}
	out := []string{join(base)}
	if alias, ok := keyAliases[base]; ok {
		out = append(out, join(alias))
	}
	return out
}

// ValidateKey reports whether key is a usable binding and, if not, why.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	if strings.TrimSpace(key) == "" {
		return false, "empty key"
	}
	if len([]rune(key)) == 1 {
		return true, ""
	}
	mods, base := splitKey(key)
	for _, p := range mods {
		if !slices.ContainsFunc(modifierOrder, func(m string) bool { return strings.EqualFold(p, m) }) {
			return false, fmt.Sprintf("unknown modifier %q", p)
		}
	}
	if base == "" {
		return false, "missing key after modifier"
	}
	return true, ""
}

// splitKey separates "ctrl+shift+a" into its modifiers and base key. A
// trailing "++" means the plus key itself.
func splitKey(key string) (mods []string, base string) {
	rest := ""
	if strings.HasSuffix(key, "++") {
		rest, base = key[:len(key)-2], "+"
	} else if i := strings.LastIndex(key, "+"); i >= 0 {
		rest, base = key[:i], key[i+1:]
	} else {
		return nil, key
	}
	if rest != "" {
		mods = strings.Split(rest, "+")
	}
	return mods, base
}
