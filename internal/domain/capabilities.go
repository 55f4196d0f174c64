package domain

// ServerCapabilities carries the mandatory/optional S-CSCF capability
// identifiers and an optional preferred server name (§3). Callers must
// treat nil slices as empty — the JSON codec always emits `[]`, never
// `null` (§4.7).
type ServerCapabilities struct {
	Mandatory         []int32
	Optional          []int32
	PreferredServer   string
}
