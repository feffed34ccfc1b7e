package report

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/parcel-cli/internal/model"
)

// WriteXLSX writes a flat attribute report: one row per feature, one column
// per attribute name seen across the feature set, sorted for stable output.
func WriteXLSX(path string, features []model.ParcelFeature) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Parcels")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	columns := attributeColumns(features)
	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().Value = col
	}

	for _, feat := range features {
		row := sheet.AddRow()
		for _, col := range columns {
			cell := row.AddCell()
			if v, ok := feat.Attributes[col]; ok && v != nil {
				cell.Value = fmt.Sprintf("%v", v)
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

// attributeColumns returns the sorted union of attribute names.
func attributeColumns(features []model.ParcelFeature) []string {
	seen := make(map[string]bool)
	for _, feat := range features {
		for name := range feat.Attributes {
			seen[name] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for name := range seen {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns
}
