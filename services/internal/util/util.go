// Package util holds small helpers shared by the services.
package util

import "encoding/json"

// DecodeJSON converts a bus payload into dst. Payloads that came from JSON
// arrive as generic maps; they are round-tripped through encoding/json.
func DecodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case T:
		*dst = v
		return nil
	case *T:
		if v != nil {
			*dst = *v
			return nil
		}
		return json.Unmarshal([]byte("null"), dst)
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}
