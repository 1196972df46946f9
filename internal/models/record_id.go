package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RecordID is an imported identifier that is either an integer or a string.
// It only exists at import boundaries; persisted records use numeric IDs.
type RecordID struct {
	num   int64
	str   string
	isNum bool
	isSet bool
}

// NumericID returns an integer RecordID.
func NumericID(n int64) RecordID {
	return RecordID{num: n, isNum: true, isSet: true}
}

// StringID returns a string RecordID.
func StringID(s string) RecordID {
	return RecordID{str: s, isSet: true}
}

// ParseRecordID reads a cell: numeric text becomes an integer, anything
// else non-empty stays a string.
func ParseRecordID(cell string) RecordID {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return RecordID{}
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return NumericID(n)
	}
	return StringID(cell)
}

// IsZero reports whether no id was supplied.
func (id RecordID) IsZero() bool { return !id.isSet }

// Int returns the integer value when the id is numeric.
func (id RecordID) Int() (int64, bool) { return id.num, id.isNum }

// String renders the id as text.
func (id RecordID) String() string {
	if id.isNum {
		return strconv.FormatInt(id.num, 10)
	}
	return id.str
}

// Uint returns the id usable as a primary key, or 0.
func (id RecordID) Uint() uint {
	if id.isNum && id.num > 0 {
		return uint(id.num)
	}
	return 0
}

// MarshalJSON writes a number, a string or null.
func (id RecordID) MarshalJSON() ([]byte, error) {
	switch {
	case !id.isSet:
		return []byte("null"), nil
	case id.isNum:
		return []byte(strconv.FormatInt(id.num, 10)), nil
	default:
		return json.Marshal(id.str)
	}
}

// UnmarshalJSON accepts a number, a string or null.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = RecordID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	if f != float64(int64(f)) {
		*id = StringID(string(data))
		return nil
	}
	*id = NumericID(int64(f))
	return nil
}
