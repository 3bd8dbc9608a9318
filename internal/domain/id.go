package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is a backend identifier. The backend sends numeric ids for most
// resources and string ids for a few, so both decode into the same type.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Int returns the numeric form, or 0 when the id is not numeric.
func (id ID) Int() int64 {
	n, _ := strconv.ParseInt(string(id), 10, 64)
	return n
}
