package types

// ---- Common service state (retained) ----

type ServiceState struct {
	Level  string `json:"level"`  // e.g. "ready", "stopped"
	Status string `json:"status"` // freeform short code
	TS     int64  `json:"ts_ms"`
}

// ---- Kinds & info ----

type Kind string

const (
	KindButton Kind = "button"
)

// Info envelope each service exposes (retained)
type Info struct {
	SchemaVersion int    `json:"schema_version"`
	Kind          Kind   `json:"kind"`
	Driver        string `json:"driver"`
	Detail        any    `json:"detail,omitempty"`
}
