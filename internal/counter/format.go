package counter

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
)

const (
	Prefix = "Views: "

	// Missing is rendered when the response has no views member.
	Missing = "-"
)

// Formatter renders the views member of a response. ok is false when the
// member is absent.
type Formatter func(v any, ok bool) string

var _ Formatter = PlainFormat
var _ Formatter = HumanFormat

// PlainFormat prints numbers exactly as received.
func PlainFormat(v any, ok bool) string {
	if !ok {
		return Prefix + Missing
	}
	return Prefix + plain(v)
}

// HumanFormat groups integer counts with thousands separators.
func HumanFormat(v any, ok bool) string {
	if n, isNum := v.(json.Number); ok && isNum {
		if i, err := n.Int64(); err == nil {
			return Prefix + humanize.Comma(i)
		}
	}
	return PlainFormat(v, ok)
}

func plain(v any) string {
	switch v := v.(type) {
	case json.Number:
		return v.String()
	case string:
		return v
	case nil:
		return "null"
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// FormatterByName maps a --format option to a Formatter.
func FormatterByName(name string) (Formatter, error) {
	switch name {
	case "", "plain":
		return PlainFormat, nil
	case "human":
		return HumanFormat, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", name)
	}
}
