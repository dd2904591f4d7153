package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileDoc is the on-disk YAML shape. Scalar tunables map directly to YAML
// fields; the four structured collections (button mappings, directions,
// keyboard remaps, excluded bundle ids) are JSON-encoded into a single
// string field, the JSON-inside-YAML envelope a user-preferences store
// would otherwise provide for structured fields.
type fileDoc struct {
	MasterMouseEnabled     bool    `yaml:"master_mouse_enabled"`
	MasterKeyboardEnabled  bool    `yaml:"master_keyboard_enabled"`
	ReverseScroll          bool    `yaml:"reverse_scroll"`
	SmoothLevel            string  `yaml:"smooth_level"`
	ShiftHorizontal        bool    `yaml:"shift_horizontal"`
	OptionPrecision        bool    `yaml:"option_precision"`
	PrecisionMult          float64 `yaml:"precision_multiplier"`
	ControlFast            bool    `yaml:"control_fast"`
	FastMult               float64 `yaml:"fast_multiplier"`
	CommandZoom            bool    `yaml:"command_zoom"`
	DragThresholdPixels    float64 `yaml:"drag_threshold_pixels"`
	ContinuousGestureOn    bool    `yaml:"continuous_gesture_enabled"`
	AssumeExternalMouse    bool    `yaml:"assume_external_mouse"`
	AssumeExternalKeyboard bool    `yaml:"assume_external_keyboard"`
	Debug                  bool    `yaml:"debug"`
	Structured             string  `yaml:"structured"`
}

func smoothLevelName(l SmoothLevel) string {
	switch l {
	case Smooth:
		return "smooth"
	case VerySmooth:
		return "very-smooth"
	default:
		return "off"
	}
}

func parseSmoothLevel(s string) SmoothLevel {
	switch s {
	case "smooth":
		return Smooth
	case "very-smooth":
		return VerySmooth
	default:
		return Off
	}
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hidremap")
}

// DefaultConfigPath returns the default config file path, allowing override
// via HIDREMAP_CONFIG the way belowdeck honors BELOWDECK_CONFIG.
func DefaultConfigPath() string {
	if p := os.Getenv("HIDREMAP_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load reads settings from the YAML file at DefaultConfigPath, layering
// them onto Default(). A missing file is not an error — Default() is
// returned untouched, matching belowdeck's "usable Config even if some
// sources are missing" contract.
func Load() (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(DefaultConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", DefaultConfigPath(), err)
	}

	doc := fileDoc{
		MasterMouseEnabled:    s.MasterMouseEnabled,
		MasterKeyboardEnabled: s.MasterKeyboardEnabled,
		SmoothLevel:           smoothLevelName(s.SmoothLevel),
		PrecisionMult:         s.Modifiers.PrecisionMult,
		FastMult:              s.Modifiers.FastMult,
		DragThresholdPixels:   s.DragThresholdPixels,
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", DefaultConfigPath(), err)
	}

	s.MasterMouseEnabled = doc.MasterMouseEnabled
	s.MasterKeyboardEnabled = doc.MasterKeyboardEnabled
	s.ReverseScroll = doc.ReverseScroll
	s.SmoothLevel = parseSmoothLevel(doc.SmoothLevel)
	s.Modifiers = ModifierBehaviors{
		ShiftHorizontal: doc.ShiftHorizontal,
		OptionPrecision: doc.OptionPrecision,
		PrecisionMult:   doc.PrecisionMult,
		ControlFast:     doc.ControlFast,
		FastMult:        doc.FastMult,
		CommandZoom:     doc.CommandZoom,
	}
	s.DragThresholdPixels = doc.DragThresholdPixels
	s.ContinuousGestureOn = doc.ContinuousGestureOn
	s.Overrides = DeviceOverrides{
		AssumeExternalMouse:    doc.AssumeExternalMouse,
		AssumeExternalKeyboard: doc.AssumeExternalKeyboard,
	}
	s.Debug = doc.Debug

	if err := decodeStructuredFields(s, doc.Structured); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes settings to the YAML file at DefaultConfigPath, creating the
// parent directory if needed.
func Save(s *Settings) error {
	structured, err := encodeStructuredFields(s)
	if err != nil {
		return err
	}
	doc := fileDoc{
		MasterMouseEnabled:     s.MasterMouseEnabled,
		MasterKeyboardEnabled:  s.MasterKeyboardEnabled,
		ReverseScroll:          s.ReverseScroll,
		SmoothLevel:            smoothLevelName(s.SmoothLevel),
		ShiftHorizontal:        s.Modifiers.ShiftHorizontal,
		OptionPrecision:        s.Modifiers.OptionPrecision,
		PrecisionMult:          s.Modifiers.PrecisionMult,
		ControlFast:            s.Modifiers.ControlFast,
		FastMult:               s.Modifiers.FastMult,
		CommandZoom:            s.Modifiers.CommandZoom,
		DragThresholdPixels:    s.DragThresholdPixels,
		ContinuousGestureOn:    s.ContinuousGestureOn,
		AssumeExternalMouse:    s.Overrides.AssumeExternalMouse,
		AssumeExternalKeyboard: s.Overrides.AssumeExternalKeyboard,
		Debug:                  s.Debug,
		Structured:             structured,
	}

	dir := filepath.Dir(DefaultConfigPath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: creating config dir: %w", err)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: marshaling settings: %w", err)
	}
	return os.WriteFile(DefaultConfigPath(), data, 0o644)
}
