package codec

import (
	"bytes"
	"encoding/csv"
	"strings"
	"unicode"

	"domain-panel/internal/models"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// exportHeader is the fixed column layout of CSV, TXT and XLSX exports.
var exportHeader = []string{"域名", "注册商", "注册日期", "过期日期", "状态"}

// Canonical field names produced by header mapping.
const (
	fieldID           = "id"
	fieldDomain       = "domain"
	fieldRegistrar    = "registrar"
	fieldRegisterDate = "registerDate"
	fieldExpireDate   = "expireDate"
	fieldStatus       = "status"
	fieldRenewURL     = "renewUrl"
)

// headerAliases maps normalized header cells to canonical fields.
var headerAliases = map[string]string{
	"id":               fieldID,
	"域名":               fieldDomain,
	"domain":           fieldDomain,
	"注册商":              fieldRegistrar,
	"registrar":        fieldRegistrar,
	"注册日期":             fieldRegisterDate,
	"registrationdate": fieldRegisterDate,
	"registerdate":     fieldRegisterDate,
	"过期日期":             fieldExpireDate,
	"expirationdate":   fieldExpireDate,
	"expiredate":       fieldExpireDate,
	"状态":               fieldStatus,
	"status":           fieldStatus,
	"续期链接":             fieldRenewURL,
	"renewurl":         fieldRenewURL,
}

var requiredFields = []string{fieldDomain, fieldRegistrar, fieldRegisterDate, fieldExpireDate, fieldStatus}

func exportRow(r models.DomainRecord) []string {
	return []string{r.Domain, r.Registrar, r.RegisterDate, r.ExpireDate, r.Status.Label()}
}

// ExportCSV writes the fixed five-column layout with a UTF-8 BOM so
// spreadsheet tools detect the encoding.
func ExportCSV(records []models.DomainRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := w.Write(exportRow(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportTXT has the same content as ExportCSV.
func ExportTXT(records []models.DomainRecord) ([]byte, error) {
	return ExportCSV(records)
}

// ImportCSV parses a comma-separated file with a header row.
func ImportCSV(data []byte) ([]Candidate, error) {
	return importDelimited(CSV, data)
}

// ImportTXT parses a TXT export, which uses the CSV layout.
func ImportTXT(data []byte) ([]Candidate, error) {
	return importDelimited(TXT, data)
}

func importDelimited(f Format, data []byte) ([]Candidate, error) {
	text := strings.TrimPrefix(string(data), string(utf8BOM))

	var rows [][]string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitLine(line))
	}
	return parseRows(f, rows)
}

// splitLine splits on commas outside double quotes. A quote toggles the
// quoted state and is dropped, except that "" inside a quoted field is one
// literal quote.
func splitLine(line string) []string {
	var cells []string
	var cur strings.Builder
	inQuotes := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"' && inQuotes && i+1 < len(runes) && runes[i+1] == '"':
			cur.WriteRune('"')
			i++
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			cells = append(cells, cleanCell(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	return append(cells, cleanCell(cur.String()))
}

// cleanCell trims whitespace. Delimiting quotes are already gone, so any
// quote left in the cell is data.
func cleanCell(s string) string {
	return strings.TrimSpace(s)
}

func normalizeHeader(cell string) string {
	cell = strings.Trim(strings.TrimSpace(cell), `"`)
	cell = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cell)
	return strings.ToLower(cell)
}

// mapHeader returns canonical field -> column index. The first column
// mapping to a field wins.
func mapHeader(header []string) map[string]int {
	cols := make(map[string]int)
	for i, cell := range header {
		field, ok := headerAliases[normalizeHeader(cell)]
		if !ok {
			continue
		}
		if _, seen := cols[field]; !seen {
			cols[field] = i
		}
	}
	return cols
}

func missingColumns(cols map[string]int) []string {
	var missing []string
	for _, f := range requiredFields {
		if _, ok := cols[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// parseRows maps the header row and builds one candidate per data row.
func parseRows(f Format, rows [][]string) ([]Candidate, error) {
	if len(rows) == 0 {
		return nil, &EmptyFileError{Format: f}
	}

	cols := mapHeader(rows[0])
	if missing := missingColumns(cols); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	out := make([]Candidate, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		get := func(field string) string {
			idx, ok := cols[field]
			if !ok || idx >= len(cells) {
				return ""
			}
			return cleanCell(cells[idx])
		}
		out = append(out, Candidate{
			ID:           models.ParseRecordID(get(fieldID)),
			Domain:       get(fieldDomain),
			Registrar:    get(fieldRegistrar),
			RegisterDate: get(fieldRegisterDate),
			ExpireDate:   get(fieldExpireDate),
			Status:       parseStatusCell(get(fieldStatus)),
			RenewURL:     get(fieldRenewURL),
		})
	}
	return out, nil
}

func parseStatusCell(cell string) models.Status {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "正常", "active":
		return models.StatusActive
	case "已过期", "expired":
		return models.StatusExpired
	default:
		return models.StatusPending
	}
}
