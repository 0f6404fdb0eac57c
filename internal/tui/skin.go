package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Skin holds the board colours. Any field left empty in a skin file keeps
// the default.
type Skin struct {
	Tile    string `yaml:"tile"`
	Empty   string `yaml:"empty"`
	Colon   string `yaml:"colon"`
	Label   string `yaml:"label"`
	Accent  string `yaml:"accent"`
	Expired string `yaml:"expired"`
	Muted   string `yaml:"muted"`
}

// DefaultSkin is the built-in amber departure-board look.
var DefaultSkin = Skin{
	Tile:    "#F5C542",
	Empty:   "#2A2A35",
	Colon:   "#F5C542",
	Label:   "#A8A8B3",
	Accent:  "#39C5BB",
	Expired: "#FF5F5F",
	Muted:   "#5C5C6B",
}

var activeSkin = DefaultSkin

// InitializeSkin loads the named skin from configDir/skins/<name>.yml and
// makes it active. "default" or "" selects DefaultSkin.
func InitializeSkin(name, configDir string) error {
	if name == "" || name == "default" {
		activeSkin = DefaultSkin
		return nil
	}
	s, err := LoadSkin(filepath.Join(configDir, "skins", name+".yml"))
	if err != nil {
		return err
	}
	activeSkin = s
	return nil
}

// ActiveSkin returns the skin currently in use.
func ActiveSkin() Skin {
	return activeSkin
}

// LoadSkin reads a YAML skin file layered over DefaultSkin.
func LoadSkin(path string) (Skin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Skin{}, fmt.Errorf("reading skin: %w", err)
	}
	s := DefaultSkin
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Skin{}, fmt.Errorf("parsing skin %s: %w", path, err)
	}
	return s, nil
}

func (s Skin) color(c string) lipgloss.Color {
	return lipgloss.Color(c)
}
