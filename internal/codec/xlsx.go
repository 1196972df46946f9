package codec

import (
	"bytes"
	"fmt"
	"strings"

	"domain-panel/internal/models"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Sheet1"

// ExportXLSX writes the CSV column layout into a single-sheet workbook.
func ExportXLSX(records []models.DomainRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := exportRow(r)
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportXLSX reads the first sheet with the same header rules as CSV.
func ImportXLSX(data []byte) ([]Candidate, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Format: XLSX, Reason: "无法打开工作簿", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &EmptyFileError{Format: XLSX}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &FormatError{Format: XLSX, Reason: "无法读取工作表", Err: err}
	}

	kept := rows[:0]
	for _, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) != "" {
			kept = append(kept, row)
		}
	}
	return parseRows(XLSX, kept)
}
