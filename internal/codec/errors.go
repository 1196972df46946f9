package codec

import (
	"fmt"
	"strings"
)

// FormatError is returned for malformed import data.
type FormatError struct {
	Format Format
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s 文件格式错误: %s", e.Format.Name, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// EmptyFileError is returned when a delimited file has no header row.
type EmptyFileError struct {
	Format Format
}

func (e *EmptyFileError) Error() string {
	return fmt.Sprintf("%s 文件为空或缺少表头", e.Format.Name)
}

// MissingColumnsError lists required canonical columns absent from the header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "缺少必需的列: " + strings.Join(e.Columns, ", ")
}
