// Package transport defines the boundary between the Cx gateway and the
// underlying Diameter stack (§1/§6, OQ-5): request/answer shapes at the
// granularity of result-code and AVP values, with the AVP dictionary and
// wire encoding themselves left to a real Diameter binding. Client is the
// single seam a production binary replaces with a real stack; this module
// ships only the interface and an in-memory fake for tests.
package transport

import (
	"context"
	"errors"
)

// ErrTimeout is returned by a Client when the Diameter stack gave up
// waiting for an answer. Per the original Homestead's on_timeout handling,
// this carries no result code and hss.Connection translates it directly to
// domain.OutcomeTimeout rather than through the result-code table.
var ErrTimeout = errors.New("transport: diameter request timed out")

// MARRequest is the wire-level shape of a Multimedia-Auth-Request.
type MARRequest struct {
	IMPI          string
	IMPU          string
	ServerName    string
	SIPAuthScheme string
	Authorization string
}

// MARAnswer is the wire-level shape of a Multimedia-Auth-Answer, before
// translation to domain.MultimediaAuthAnswer.
type MARAnswer struct {
	ResultCode         int32
	ExperimentalResult int32
	VendorID           uint32

	SIPAuthScheme string

	DigestHA1   string
	DigestRealm string
	DigestQoP   string

	AKAChallenge    string
	AKAResponse     string
	AKACryptKey     string
	AKAIntegrityKey string
	AKAVersion      int
}

// UARRequest is the wire-level shape of a User-Authorization-Request.
type UARRequest struct {
	IMPI           string
	IMPU           string
	VisitedNetwork string
	AuthType       string
	Emergency      bool
}

// UARAnswer is the wire-level shape of a User-Authorization-Answer.
type UARAnswer struct {
	ResultCode         int32
	ExperimentalResult int32
	VendorID           uint32

	ServerName               string
	CapabilitiesMandatory    []int32
	CapabilitiesOptional     []int32
}

// LIRRequest is the wire-level shape of a Location-Info-Request.
type LIRRequest struct {
	IMPU        string
	Originating string
	AuthType    string
}

// LIRAnswer is the wire-level shape of a Location-Info-Answer.
type LIRAnswer struct {
	ResultCode         int32
	ExperimentalResult int32
	VendorID           uint32

	ServerName            string
	CapabilitiesMandatory []int32
	CapabilitiesOptional  []int32
	WildcardIMPU          string
}

// SARRequest is the wire-level shape of a Server-Assignment-Request.
type SARRequest struct {
	IMPI              string
	IMPU              string
	ServerName        string
	Type              int32
	SupportSharedIFCs bool
	WildcardIMPU      string
}

// SARAnswer is the wire-level shape of a Server-Assignment-Answer.
type SARAnswer struct {
	ResultCode         int32
	ExperimentalResult int32
	VendorID           uint32

	ChargingCCFs  []string
	ChargingECFs  []string
	UserData      string
	WildcardIMPU  string
}

// Client sends the four Cx request types and blocks for the matching
// answer. A returned error is reserved for conditions the caller cannot
// recover a result code from — context cancellation, a transport-level
// send failure, or a Diameter timeout, which is reported as ErrTimeout and
// which hss.Connection translates to domain.OutcomeTimeout.
type Client interface {
	MultimediaAuth(ctx context.Context, req MARRequest) (*MARAnswer, error)
	UserAuth(ctx context.Context, req UARRequest) (*UARAnswer, error)
	LocationInfo(ctx context.Context, req LIRRequest) (*LIRAnswer, error)
	ServerAssignment(ctx context.Context, req SARRequest) (*SARAnswer, error)
}
