package maprender

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Style controls the look of the rendered map.
type Style struct {
	TileURL     string  `yaml:"tile_url"`
	Attribution string  `yaml:"attribution"`
	FillColor   string  `yaml:"fill_color"`
	LineColor   string  `yaml:"line_color"`
	FillOpacity float64 `yaml:"fill_opacity"`
	Zoom        int     `yaml:"zoom"`
}

// DefaultStyle returns the style used when no sidecar file is configured.
func DefaultStyle() Style {
	return Style{
		TileURL:     "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors",
		FillColor:   "#3388ff",
		LineColor:   "#2255aa",
		FillOpacity: 0.35,
		Zoom:        17,
	}
}

// LoadStyle reads a YAML style sidecar, filling unset fields from the
// defaults.
func LoadStyle(path string) (Style, error) {
	style := DefaultStyle()

	data, err := os.ReadFile(path)
	if err != nil {
		return style, eris.Wrapf(err, "maprender: read style %s", path)
	}
	if err := yaml.Unmarshal(data, &style); err != nil {
		return style, eris.Wrapf(err, "maprender: parse style %s", path)
	}

	if style.Zoom <= 0 {
		style.Zoom = DefaultStyle().Zoom
	}
	if style.FillOpacity <= 0 {
		style.FillOpacity = DefaultStyle().FillOpacity
	}
	return style, nil
}
