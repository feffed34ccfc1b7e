// Package maprender writes an interactive Leaflet map for a parcel lookup
// result: the parcel polygon, a centered marker, and an attribute popup.
package maprender

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/parcel-cli/internal/model"
	"github.com/sells-group/parcel-cli/internal/parcel"
)

// ErrNoGeometry is returned when no feature carries usable rings; the map
// file is not written in that case.
var ErrNoGeometry = eris.New("maprender: no feature with geometry rings")

type pageData struct {
	Center      template.JS
	Zoom        int
	TileURL     string
	Attribution string
	FillColor   string
	LineColor   string
	FillOpacity float64
	Polygons    template.JS
	Popup       template.HTML
}

// Render writes the map HTML to path, overwriting any existing file. The map
// is centered on the centroid of the first feature with geometry; features
// without rings are skipped. Returns ErrNoGeometry when nothing is drawable.
func Render(path string, result model.LookupResult, style Style) error {
	var drawable []model.ParcelFeature
	for _, f := range result.Features {
		if !f.Geometry.Empty() {
			drawable = append(drawable, f)
		}
	}
	if len(drawable) == 0 {
		return ErrNoGeometry
	}

	center, err := parcel.Centroid(drawable[0].Geometry)
	if err != nil {
		return eris.Wrap(err, "maprender: centroid")
	}

	polygons, err := leafletPolygons(drawable)
	if err != nil {
		return err
	}

	data := pageData{
		Center:      template.JS(fmt.Sprintf("[%g, %g]", center.Lat, center.Lng)),
		Zoom:        style.Zoom,
		TileURL:     style.TileURL,
		Attribution: style.Attribution,
		FillColor:   style.FillColor,
		LineColor:   style.LineColor,
		FillOpacity: style.FillOpacity,
		Polygons:    polygons,
		Popup:       buildPopup(drawable[0], result.Business),
	}

	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "maprender: create %s", path)
	}
	defer out.Close() //nolint:errcheck

	if err := mapTemplate.Execute(out, data); err != nil {
		return eris.Wrap(err, "maprender: execute template")
	}

	zap.L().Info("maprender: map written",
		zap.String("path", path),
		zap.Int("polygons", len(drawable)),
	)
	return nil
}

// leafletPolygons converts features to Leaflet polygon coordinates, which are
// [lat, lng] ordered, the reverse of esri rings.
func leafletPolygons(features []model.ParcelFeature) (template.JS, error) {
	polygons := make([][][][2]float64, 0, len(features))
	for _, f := range features {
		rings := make([][][2]float64, 0, len(f.Geometry.Rings))
		for _, ring := range f.Geometry.Rings {
			flipped := make([][2]float64, 0, len(ring))
			for _, c := range ring {
				flipped = append(flipped, [2]float64{c[1], c[0]})
			}
			rings = append(rings, flipped)
		}
		polygons = append(polygons, rings)
	}

	data, err := json.Marshal(polygons)
	if err != nil {
		return "", eris.Wrap(err, "maprender: marshal polygons")
	}
	return template.JS(data), nil
}

// buildPopup assembles the popup HTML: parcel attributes in sorted key order,
// then whichever business fields are present.
func buildPopup(feature model.ParcelFeature, business *model.BusinessInfo) template.HTML {
	var b strings.Builder

	b.WriteString("<div class=\"parcel-popup\">")
	b.WriteString("<h4>Parcel</h4>")

	keys := make([]string, 0, len(feature.Attributes))
	for k := range feature.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := feature.Attributes[k]
		if v == nil {
			continue
		}
		writePopupRow(&b, attributeLabel(k), fmt.Sprintf("%v", v))
	}

	if business != nil {
		b.WriteString("<h4>Business</h4>")
		writePopupRow(&b, "Name", business.Name)
		writePopupRow(&b, "Status", business.Status)
		writePopupRow(&b, "Type", business.Type)
		writePopupRow(&b, "Phone", business.Phone)
		writePopupRow(&b, "Website", business.Website)
		writePopupRow(&b, "Address", business.Address)
	}

	b.WriteString("</div>")
	return template.HTML(b.String()) //nolint:gosec // values are escaped per row
}

func writePopupRow(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "<b>%s:</b> %s<br>", html.EscapeString(label), html.EscapeString(value))
}

// attributeLabel turns a raw field name like SITUS_CITY into "Situs City".
// Casers are stateful, so one is created per call.
func attributeLabel(name string) string {
	return cases.Title(language.AmericanEnglish).String(strings.ToLower(strings.ReplaceAll(name, "_", " ")))
}
