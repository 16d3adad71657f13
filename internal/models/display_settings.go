package models

import "encoding/json"

// DisplaySettings is the per-user presentation settings blob stored on the
// users table. It is a typed struct rather than a free-form document so that
// unknown keys are dropped and missing keys are backfilled with defaults.
type DisplaySettings struct {
	Theme       string `json:"theme"`
	FontFamily  string `json:"font_family"`
	FontSize    int    `json:"font_size"`
	ColorScheme string `json:"color_scheme"`
}

// DefaultDisplaySettings returns the settings assigned at registration.
func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		Theme:       "light",
		FontFamily:  "Arial",
		FontSize:    10,
		ColorScheme: "default",
	}
}

// Backfill replaces zero-valued fields with their defaults so settings blobs
// written by older versions pick up keys introduced later.
func (s *DisplaySettings) Backfill() {
	def := DefaultDisplaySettings()
	if s.Theme == "" {
		s.Theme = def.Theme
	}
	if s.FontFamily == "" {
		s.FontFamily = def.FontFamily
	}
	if s.FontSize <= 0 {
		s.FontSize = def.FontSize
	}
	if s.ColorScheme == "" {
		s.ColorScheme = def.ColorScheme
	}
}

// DisplaySettingsFrom decodes a stored settings blob, backfilling defaults.
// An empty or corrupt blob yields the defaults rather than an error: display
// preferences are never worth failing a login over.
func DisplaySettingsFrom(blob string) DisplaySettings {
	s := DefaultDisplaySettings()
	if blob == "" {
		return s
	}
	if err := json.Unmarshal([]byte(blob), &s); err != nil {
		return DefaultDisplaySettings()
	}
	s.Backfill()
	return s
}

// Encode serializes the settings for storage on the user row.
func (s DisplaySettings) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
