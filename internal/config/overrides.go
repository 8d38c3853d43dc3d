package config

// Overrides carries command-line flags that take precedence over the
// config file. Zero values leave the file's setting alone.
type Overrides struct {
	ThemeName       string
	BorderStyle     string
	TaskbarPosition string
	HideClock       bool
	HideSysinfo     bool
	CellWidth       int
	CellHeight      int
}

// ApplyOverrides applies o to cfg and re-validates it.
func ApplyOverrides(o Overrides, cfg *UserConfig) {
	if cfg == nil {
		return
	}
	a := &cfg.Appearance
	if o.ThemeName != "" {
		a.Theme = o.ThemeName
	}
	if o.BorderStyle != "" {
		a.BorderStyle = o.BorderStyle
	}
	if o.TaskbarPosition != "" {
		a.TaskbarPosition = o.TaskbarPosition
	}
	if o.HideClock {
		a.HideClock = true
	}
	if o.HideSysinfo {
		a.HideSysinfo = true
	}
	if o.CellWidth > 0 {
		cfg.Desktop.CellWidth = o.CellWidth
	}
	if o.CellHeight > 0 {
		cfg.Desktop.CellHeight = o.CellHeight
	}
	for _, w := range cfg.Validate() {
		logger.Warn(w)
	}
}
