package config

// Theme holds the colors used by CLI output
type Theme struct {
	// Preset name ("default" or "monochrome")
	Preset string `yaml:"preset"`

	Accent       string `yaml:"accent"`
	ColumnBorder string `yaml:"column_border"`
	CardBorder   string `yaml:"card_border"`
	Title        string `yaml:"title"`
	Subtle       string `yaml:"subtle"` // muted/placeholder text
	Normal       string `yaml:"normal"`

	// Notification colors (foreground/background pairs)
	InfoFg    string `yaml:"info_fg"`
	InfoBg    string `yaml:"info_bg"`
	WarningFg string `yaml:"warning_fg"`
	WarningBg string `yaml:"warning_bg"`
	ErrorFg   string `yaml:"error_fg"`
	ErrorBg   string `yaml:"error_bg"`
}

// DefaultTheme returns the purple theme
func DefaultTheme() Theme {
	return Theme{
		Preset:       "default",
		Accent:       "#874BFD",
		ColumnBorder: "#5F87D7",
		CardBorder:   "#585858",
		Title:        "#D75FD7",
		Subtle:       "#585858",
		Normal:       "#D0D0D0",
		InfoFg:       "#00AFFF",
		InfoBg:       "#00005F",
		WarningFg:    "#FFD700",
		WarningBg:    "#875F00",
		ErrorFg:      "#FF0000",
		ErrorBg:      "#5F0000",
	}
}

// MonochromeTheme returns a black and white theme
func MonochromeTheme() Theme {
	return Theme{
		Preset:       "monochrome",
		Accent:       "#FFFFFF",
		ColumnBorder: "#FFFFFF",
		CardBorder:   "#585858",
		Title:        "#FFFFFF",
		Subtle:       "#585858",
		Normal:       "#D0D0D0",
		InfoFg:       "#FFFFFF",
		InfoBg:       "#1C1C1C",
		WarningFg:    "#FFFFFF",
		WarningBg:    "#3A3A3A",
		ErrorFg:      "#FFFFFF",
		ErrorBg:      "#585858",
	}
}

// GetPreset returns a preset theme by name, falling back to the default
func GetPreset(name string) Theme {
	if name == "monochrome" {
		return MonochromeTheme()
	}
	return DefaultTheme()
}

// ApplyDefaults fills in missing colors from the selected preset
func (t *Theme) ApplyDefaults() {
	preset := GetPreset(t.Preset)

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&t.Preset, preset.Preset)
	fill(&t.Accent, preset.Accent)
	fill(&t.ColumnBorder, preset.ColumnBorder)
	fill(&t.CardBorder, preset.CardBorder)
	fill(&t.Title, preset.Title)
	fill(&t.Subtle, preset.Subtle)
	fill(&t.Normal, preset.Normal)
	fill(&t.InfoFg, preset.InfoFg)
	fill(&t.InfoBg, preset.InfoBg)
	fill(&t.WarningFg, preset.WarningFg)
	fill(&t.WarningBg, preset.WarningBg)
	fill(&t.ErrorFg, preset.ErrorFg)
	fill(&t.ErrorBg, preset.ErrorBg)
}
