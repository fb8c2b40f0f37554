package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats the report as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format outputs the full report as a single JSON document
func (f *JSONFormatter) Format(report Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}
