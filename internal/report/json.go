// Package report persists lookup output: the JSON feature dump and an
// optional XLSX attribute report.
package report

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/parcel-cli/internal/model"
)

// WriteJSON writes the features as a JSON array of {attributes, geometry}
// records, overwriting any existing file at path.
func WriteJSON(path string, features []model.ParcelFeature) error {
	if features == nil {
		features = []model.ParcelFeature{}
	}

	data, err := json.MarshalIndent(features, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal features")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	return nil
}

// ReadJSON loads a feature dump previously written by WriteJSON.
func ReadJSON(path string) ([]model.ParcelFeature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "report: read %s", path)
	}

	var features []model.ParcelFeature
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, eris.Wrapf(err, "report: unmarshal %s", path)
	}
	return features, nil
}
