package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList persists an ordered list of strings as a JSON array in a text column.
type StringList []string

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return l.parse([]byte(v))
	case []byte:
		return l.parse(v)
	default:
		return fmt.Errorf("StringList: unsupported Scan type %T", src)
	}
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Join flattens the list for CSV exports.
func (l StringList) Join(sep string) string {
	return strings.Join(l, sep)
}

func (l *StringList) parse(raw []byte) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return fmt.Errorf("StringList: parse %q: %w", trimmed, err)
	}
	if out == nil {
		out = []string{}
	}
	*l = StringList(out)
	return nil
}
