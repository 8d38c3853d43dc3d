package config

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// GetKeybindings returns all keybinding sections for the help overlay.
// If registry is nil the defaults are shown.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(nil)
	}

	sections := []KeybindingSection{}

	windowMgmt := KeybindingSection{Title: "WINDOWS"}
	addBinding(&windowMgmt, registry, ActionFocusNext)
	addBinding(&windowMgmt, registry, ActionFocusPrev)
	addBinding(&windowMgmt, registry, ActionMinimize)
	addBinding(&windowMgmt, registry, ActionMaximize)
	addBinding(&windowMgmt, registry, ActionClose)
	addBinding(&windowMgmt, registry, ActionRestoreAll)
	if len(windowMgmt.Bindings) > 0 {
		sections = append(sections, windowMgmt)
	}

	launch := KeybindingSection{Title: "OPEN"}
	for i := 1; i <= 9; i++ {
		addBinding(&launch, registry, OpenWindowAction(i))
	}
	if len(launch.Bindings) > 0 {
		sections = append(sections, launch)
	}

	general := KeybindingSection{Title: "GENERAL"}
	addBinding(&general, registry, ActionToggleHelp)
	addBinding(&general, registry, ActionQuit)
	if len(general.Bindings) > 0 {
		sections = append(sections, general)
	}

	return append(sections, mouseSection())
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: ActionDescriptions[action],
		})
	}
}

func mouseSection() KeybindingSection {
	return KeybindingSection{
		Title: "MOUSE",
		Bindings: []Keybinding{
			{"Drag title bar", "Move window"},
			{"Drag bottom-right corner", "Resize window"},
			{"Double-click title bar", "Maximize or restore"},
			{"Click taskbar entry", "Focus, minimize or restore"},
		},
	}
}
