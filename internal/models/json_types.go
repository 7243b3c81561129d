package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringArray stores string lists as a JSON column.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *StringArray) Scan(value interface{}) error {
	if a == nil {
		return fmt.Errorf("models.StringArray: Scan on nil pointer")
	}
	raw, err := scanBytes(value)
	if err != nil {
		return fmt.Errorf("models.StringArray: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		*a = StringArray{}
		return nil
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err != nil {
		return fmt.Errorf("models.StringArray: %w", err)
	}
	*a = arr
	return nil
}

// RawJSON is an opaque JSON document column. Empty values read back as {}.
type RawJSON json.RawMessage

func (j RawJSON) Value() (driver.Value, error) {
	if len(bytes.TrimSpace(j)) == 0 {
		return "{}", nil
	}
	if !json.Valid(j) {
		return nil, fmt.Errorf("models.RawJSON: invalid json")
	}
	return string(j), nil
}

func (j *RawJSON) Scan(value interface{}) error {
	if j == nil {
		return fmt.Errorf("models.RawJSON: Scan on nil pointer")
	}
	raw, err := scanBytes(value)
	if err != nil {
		return fmt.Errorf("models.RawJSON: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" || string(raw) == "null" {
		*j = RawJSON("{}")
		return nil
	}
	*j = append((*j)[:0], raw...)
	return nil
}

func (j RawJSON) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(j)) == 0 {
		return []byte("{}"), nil
	}
	return []byte(j), nil
}

func (j *RawJSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return fmt.Errorf("models.RawJSON: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[:0], data...)
	return nil
}

func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported Scan type %T", value)
	}
}
