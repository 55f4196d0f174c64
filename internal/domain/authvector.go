package domain

// AuthVectorKind distinguishes the two authentication vector variants
// carried by AuthVector (§3).
type AuthVectorKind int

const (
	AuthVectorUnknown AuthVectorKind = iota
	AuthVectorDigest
	AuthVectorAKA
)

// DigestAuthVector carries SIP digest authentication material.
type DigestAuthVector struct {
	HA1   string
	Realm string
	QoP   string
}

// AKAAuthVector carries an IMS AKA challenge/response pair. Version is 1 or
// 2, matching the scheme negotiated with the HSS.
type AKAAuthVector struct {
	Challenge     string
	Response      string
	CryptKey      string
	IntegrityKey  string
	Version       int
}

// AuthVector is a two-variant sum type: exactly one of Digest/AKA is
// meaningful, selected by Kind. Collapsing the source's inheritance into a
// tagged union keeps move/value semantics simple (spec.md §9).
type AuthVector struct {
	Kind   AuthVectorKind
	Digest DigestAuthVector
	AKA    AKAAuthVector
}
