package reporting

import "encoding/json"

// RenderJSON renders the document as indented JSON.
func RenderJSON(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
