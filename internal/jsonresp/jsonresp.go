// Package jsonresp implements C7, the router-facing JSON response codec
// (§4.7): plain marshal-only builders with no hidden state, emitting
// capability arrays as `[]` rather than `null` so a router client never has
// to special-case an omitted field.
package jsonresp

import (
	"encoding/json"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
)

// DigestResponse is the §4.3.1 digest-only AV reply.
type DigestResponse struct {
	DigestHA1 string `json:"digest_ha1"`
}

// Digest builds the digest-only AV lookup reply.
func Digest(av domain.AuthVector) ([]byte, error) {
	return json.Marshal(DigestResponse{DigestHA1: av.Digest.HA1})
}

type akaVector struct {
	Challenge    string `json:"challenge"`
	Response     string `json:"response"`
	CryptKey     string `json:"cryptkey"`
	IntegrityKey string `json:"integritykey"`
	Version      int    `json:"version"`
}

// AKAResponse is the §4.3.1 full AKA AV reply.
type AKAResponse struct {
	AKA akaVector `json:"aka"`
}

// AKA builds the full AKA AV lookup reply.
func AKA(av domain.AuthVector) ([]byte, error) {
	return json.Marshal(AKAResponse{AKA: akaVector{
		Challenge:    av.AKA.Challenge,
		Response:     av.AKA.Response,
		CryptKey:     av.AKA.CryptKey,
		IntegrityKey: av.AKA.IntegrityKey,
		Version:      av.AKA.Version,
	}})
}

// ServerAssignmentStatusResponse is the shared shape used by §4.3.2
// (registration status) and §4.3.3 (location info). Capabilities are
// always non-nil so they marshal as `[]`, never `null`.
type ServerAssignmentStatusResponse struct {
	ResultCode             int      `json:"result-code"`
	SCSCF                  string   `json:"scscf,omitempty"`
	MandatoryCapabilities  []int32  `json:"mandatory-capabilities"`
	OptionalCapabilities   []int32  `json:"optional-capabilities"`
	WildcardIdentity       string   `json:"wildcard-identity,omitempty"`
}

func nonNil(capabilities []int32) []int32 {
	if capabilities == nil {
		return []int32{}
	}
	return capabilities
}

// RegistrationStatus builds the §4.3.2 UAR success reply. serverName is the
// already-resolved name (§4.3.2: prefer the answer's server_name, falling
// back to capabilities.PreferredServer).
func RegistrationStatus(resultCode int, serverName string, caps domain.ServerCapabilities) ([]byte, error) {
	return json.Marshal(ServerAssignmentStatusResponse{
		ResultCode:            resultCode,
		SCSCF:                 serverName,
		MandatoryCapabilities: nonNil(caps.Mandatory),
		OptionalCapabilities:  nonNil(caps.Optional),
	})
}

// LocationInfo builds the §4.3.3 LIR success reply, additionally including
// wildcard-identity when the answer carried one.
func LocationInfo(resultCode int, serverName string, caps domain.ServerCapabilities, wildcard string) ([]byte, error) {
	return json.Marshal(ServerAssignmentStatusResponse{
		ResultCode:            resultCode,
		SCSCF:                 serverName,
		MandatoryCapabilities: nonNil(caps.Mandatory),
		OptionalCapabilities:  nonNil(caps.Optional),
		WildcardIdentity:      wildcard,
	})
}

// RegDataPutBody is the §4.3.4/§6 PUT request body.
type RegDataPutBody struct {
	ReqType          string `json:"reqtype" validate:"required,oneof=reg call dereg-user dereg-admin dereg-timeout dereg-auth-failed dereg-auth-timeout"`
	ServerName       string `json:"server_name,omitempty"`
	WildcardIdentity string `json:"wildcard_identity,omitempty"`
}

// ParseRegDataPutBody decodes a PUT /impu/{impu}/reg-data body.
func ParseRegDataPutBody(data []byte) (*RegDataPutBody, error) {
	var body RegDataPutBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

// RouterRegistration is one entry of the §4.4.1 deregister-bindings body.
type RouterRegistration struct {
	PrimaryIMPU string `json:"primary-impu"`
	IMPI        string `json:"impi,omitempty"`
}

// DeregisterBindingsBody is the §4.4.1/§4.5 request body sent to the
// router's DELETE /registrations endpoint.
type DeregisterBindingsBody struct {
	Registrations []RouterRegistration `json:"registrations"`
}

// BuildDeregisterBindingsBody marshals the Cartesian/list-form body.
func BuildDeregisterBindingsBody(registrations []domain.RouterRegistration) ([]byte, error) {
	body := DeregisterBindingsBody{Registrations: make([]RouterRegistration, 0, len(registrations))}
	for _, r := range registrations {
		body.Registrations = append(body.Registrations, RouterRegistration{PrimaryIMPU: r.PrimaryIMPU, IMPI: r.IMPI})
	}
	return json.Marshal(body)
}
