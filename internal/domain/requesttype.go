package domain

// RequestType is the router-facing mutation kind carried in a reg-data PUT
// body (§3, §6).
type RequestType string

const (
	RequestTypeReg             RequestType = "reg"
	RequestTypeCall            RequestType = "call"
	RequestTypeDeregUser       RequestType = "dereg-user"
	RequestTypeDeregAdmin      RequestType = "dereg-admin"
	RequestTypeDeregTimeout    RequestType = "dereg-timeout"
	RequestTypeDeregAuthFailed RequestType = "dereg-auth-failed"
	RequestTypeDeregAuthTimeout RequestType = "dereg-auth-timeout"
	RequestTypeUnknown         RequestType = "unknown"
)

// ParseRequestType maps the wire string from a PUT body to a RequestType,
// returning RequestTypeUnknown for anything unrecognised.
func ParseRequestType(s string) RequestType {
	switch RequestType(s) {
	case RequestTypeReg, RequestTypeCall, RequestTypeDeregUser, RequestTypeDeregAdmin,
		RequestTypeDeregTimeout, RequestTypeDeregAuthFailed, RequestTypeDeregAuthTimeout:
		return RequestType(s)
	default:
		return RequestTypeUnknown
	}
}

// IsDereg reports whether rt is one of the five deregistration subtypes.
func (rt RequestType) IsDereg() bool {
	switch rt {
	case RequestTypeDeregUser, RequestTypeDeregAdmin, RequestTypeDeregTimeout,
		RequestTypeDeregAuthFailed, RequestTypeDeregAuthTimeout:
		return true
	default:
		return false
	}
}

// IsAuthFailureDereg reports whether rt is one of the two auth-failure
// subtypes, which send a SAR regardless of the IRS's prior state (§4.3.4,
// preserved verbatim per spec.md's Design Notes).
func (rt RequestType) IsAuthFailureDereg() bool {
	return rt == RequestTypeDeregAuthFailed || rt == RequestTypeDeregAuthTimeout
}

// IsDeregistrationRequest reports whether rt is one of the three true
// deregistration subtypes that delete the cached IRS once the SAR
// succeeds. Narrower than IsDereg: an auth-failure SAR success leaves the
// cache untouched, matching original_source/src/handlers.cpp's
// is_deregistration_request/is_auth_failure_request split (the post-SAR
// cache write and delete are gated on neither being true together, and
// the delete alone is gated on this method rather than IsDereg).
func (rt RequestType) IsDeregistrationRequest() bool {
	return rt == RequestTypeDeregUser || rt == RequestTypeDeregAdmin || rt == RequestTypeDeregTimeout
}

// ServerAssignmentType is the `Type` field of a server_assignment request
// (§4.2).
type ServerAssignmentType string

const (
	SARRegistration                 ServerAssignmentType = "REGISTRATION"
	SARReRegistration               ServerAssignmentType = "RE_REGISTRATION"
	SARUnregisteredUser             ServerAssignmentType = "UNREGISTERED_USER"
	SARUserDeregistration           ServerAssignmentType = "USER_DEREGISTRATION"
	SARAdministrativeDeregistration ServerAssignmentType = "ADMINISTRATIVE_DEREGISTRATION"
	SARTimeoutDeregistration        ServerAssignmentType = "TIMEOUT_DEREGISTRATION"
	SARAuthenticationFailure        ServerAssignmentType = "AUTHENTICATION_FAILURE"
	SARAuthenticationTimeout        ServerAssignmentType = "AUTHENTICATION_TIMEOUT"
)

// SARTypeForDereg maps a dereg RequestType to its SAR subtype.
func SARTypeForDereg(rt RequestType) ServerAssignmentType {
	switch rt {
	case RequestTypeDeregUser:
		return SARUserDeregistration
	case RequestTypeDeregAdmin:
		return SARAdministrativeDeregistration
	case RequestTypeDeregTimeout:
		return SARTimeoutDeregistration
	case RequestTypeDeregAuthFailed:
		return SARAuthenticationFailure
	case RequestTypeDeregAuthTimeout:
		return SARAuthenticationTimeout
	default:
		return ""
	}
}

// DeregistrationReason is the reason code carried by an HSS Registration
// Termination notification (§4.4.1).
type DeregistrationReason int

const (
	ReasonPermanentTermination DeregistrationReason = 0
	ReasonNewServerAssigned    DeregistrationReason = 1
	ReasonServerChange         DeregistrationReason = 2
	ReasonRemoveSCSCF          DeregistrationReason = 3
)

// Valid reports whether r is one of the four reason codes this system
// understands (§4.4.1); any other value is a protocol-error answer.
func (r DeregistrationReason) Valid() bool {
	switch r {
	case ReasonPermanentTermination, ReasonNewServerAssigned, ReasonServerChange, ReasonRemoveSCSCF:
		return true
	default:
		return false
	}
}

// SendsNotifications reports whether the router should re-contact UEs for
// this reason (§4.4.1).
func (r DeregistrationReason) SendsNotifications() bool {
	return r == ReasonRemoveSCSCF || r == ReasonServerChange
}
