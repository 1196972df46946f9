// Package codec converts a domain collection to and from JSON, CSV, TXT
// and XLSX files.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"domain-panel/internal/models"
)

// Format describes one file representation.
type Format struct {
	Name      string
	Extension string
	MIME      string
}

var (
	JSON = Format{Name: "json", Extension: ".json", MIME: "application/json"}
	CSV  = Format{Name: "csv", Extension: ".csv", MIME: "text/csv;charset=utf-8"}
	TXT  = Format{Name: "txt", Extension: ".txt", MIME: "text/plain;charset=utf-8"}
	XLSX = Format{Name: "xlsx", Extension: ".xlsx", MIME: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}
)

var formats = []Format{JSON, CSV, TXT, XLSX}

// ParseFormat looks a format up by name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	for _, f := range formats {
		if f.Name == name {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("unsupported format: %q", name)
}

// FormatFromFilename picks the format from a file extension.
func FormatFromFilename(filename string) (Format, error) {
	return ParseFormat(filepath.Ext(filename))
}

// Filename returns base with the format's extension.
func (f Format) Filename(base string) string {
	return base + f.Extension
}

// Export serializes records in format f.
func Export(f Format, records []models.DomainRecord) ([]byte, error) {
	switch f.Name {
	case JSON.Name:
		return ExportJSON(records)
	case CSV.Name:
		return ExportCSV(records)
	case TXT.Name:
		return ExportTXT(records)
	case XLSX.Name:
		return ExportXLSX(records)
	}
	return nil, fmt.Errorf("unsupported format: %q", f.Name)
}

// Import parses data in format f into candidate records.
func Import(f Format, data []byte) ([]Candidate, error) {
	switch f.Name {
	case JSON.Name:
		return ImportJSON(data)
	case CSV.Name:
		return ImportCSV(data)
	case TXT.Name:
		return ImportTXT(data)
	case XLSX.Name:
		return ImportXLSX(data)
	}
	return nil, fmt.Errorf("unsupported format: %q", f.Name)
}

// Candidate is an imported, not yet validated record. ID keeps whatever the
// file carried, number or string.
type Candidate struct {
	ID           models.RecordID `json:"id,omitempty"`
	Domain       string          `json:"domain"`
	Status       models.Status   `json:"status"`
	Registrar    string          `json:"registrar"`
	RegisterDate string          `json:"registerDate"`
	ExpireDate   string          `json:"expireDate"`
	RenewURL     string          `json:"renewUrl,omitempty"`
}

// Record converts the candidate; string ids are dropped.
func (c Candidate) Record() models.DomainRecord {
	return models.DomainRecord{
		ID:           c.ID.Uint(),
		Domain:       c.Domain,
		Status:       c.Status,
		Registrar:    c.Registrar,
		RegisterDate: c.RegisterDate,
		ExpireDate:   c.ExpireDate,
		RenewURL:     c.RenewURL,
	}
}

// Records converts every candidate, preserving order.
func Records(cs []Candidate) []models.DomainRecord {
	out := make([]models.DomainRecord, len(cs))
	for i, c := range cs {
		out[i] = c.Record()
	}
	return out
}
