package playcricket

import (
	"bytes"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// flexString absorbs the upstream habit of sending the same logical id as
// a JSON number in one response and a string in the next. All external ids
// are opaque strings downstream.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}

	*f = flexString(string(trimmed))
	return nil
}

func (f flexString) String() string {
	return string(f)
}

// flexInt accepts a JSON number or a numeric string; blank and dash
// placeholders ("", "-") decode as zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	if raw == "" || raw == "-" {
		*f = 0
		return nil
	}

	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*f = flexInt(int(parsed))
	return nil
}

func (f flexInt) Int() int {
	return int(f)
}
