package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TagList is a list of feedback tags backed by a nullable JSONB column.
//
// Reads are lenient because the column has seen several historical shapes:
// SQL NULL and JSON null decode to an empty list, a JSON array decodes
// element-wise, a bare comma-separated string is split, and any other scalar
// becomes a single-element list. Callers therefore never see a nil list.
// Writes always produce a JSON array of strings.
type TagList []string

func (TagList) GormDataType() string { return "jsonb" }

func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TagList) Scan(value interface{}) error {
	if value == nil {
		*t = TagList{}
		return nil
	}

	var raw string
	switch v := value.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		*t = TagList{fmt.Sprint(v)}
		return nil
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		*t = TagList{}
		return nil
	}

	var decoded []interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		out := make(TagList, 0, len(decoded))
		for _, el := range decoded {
			if s, ok := el.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(el))
			}
		}
		*t = out
		return nil
	}

	// Legacy rows stored tags as a plain comma-separated string.
	out := TagList{}
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	*t = out
	return nil
}
