package button

import "buttoncode-go/errcode"

// PressDuration is the classification of one completed press.
type PressDuration uint8

const (
	Short PressDuration = iota
	Long
)

func (p PressDuration) String() string {
	switch p {
	case Short:
		return "short"
	case Long:
		return "long"
	default:
		return "unknown"
	}
}

// ParsePressDuration is the inverse of String.
func ParsePressDuration(s string) (PressDuration, error) {
	switch s {
	case "short":
		return Short, nil
	case "long":
		return Long, nil
	}
	return Short, &errcode.E{C: errcode.InvalidPayload, Op: "parse_press", Msg: "unknown press duration " + s}
}
