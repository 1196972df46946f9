package codec

import (
	"bytes"
	"encoding/json"

	"domain-panel/internal/models"
)

// ExportJSON writes records as a 2-space indented JSON array.
func ExportJSON(records []models.DomainRecord) ([]byte, error) {
	if records == nil {
		records = []models.DomainRecord{}
	}
	return json.MarshalIndent(records, "", "  ")
}

// ImportJSON reads a JSON array. Elements are passed through unvalidated.
func ImportJSON(data []byte) ([]Candidate, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &FormatError{Format: JSON, Reason: "无效的 JSON", Err: err}
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &FormatError{Format: JSON, Reason: "数据必须是数组"}
	}

	var out []Candidate
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, &FormatError{Format: JSON, Reason: "数组元素无效", Err: err}
	}
	if out == nil {
		out = []Candidate{}
	}
	return out, nil
}
