package invoiceapi

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Fields is an invoice record keyed by field name, as exchanged with the
// invoice service.
type Fields map[string]string

// UnmarshalJSON accepts numbers, booleans and null besides strings. Numbers
// are kept without exponent and null becomes "".
func (f *Fields) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Fields, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	*f = out
	return nil
}

// ClientEntry is a client known to the invoice service.
type ClientEntry struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}
