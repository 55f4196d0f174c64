package hss

import "github.com/clearwater-hss/cx-gateway/internal/domain"

// Result-Code and Experimental-Result-Code AVP values (§4.2), taken from
// the 3GPP Cx/Dx dictionary. IMS mandates that exactly one of result code
// or experimental result code is set on any answer.
const (
	vendorID3GPP = 10415

	resultSuccess               int32 = 2001
	resultUnableToDeliver       int32 = 3002
	resultTooBusy               int32 = 3004
	resultAuthorizationRejected int32 = 5003

	experimentalFirstRegistration      int32 = 2001
	experimentalSubsequentRegistration int32 = 2002
	experimentalUnregisteredService    int32 = 2003

	experimentalErrorUserUnknown           int32 = 5001
	experimentalErrorIdentitiesDontMatch   int32 = 5002
	experimentalErrorIdentityNotRegistered int32 = 5003
	experimentalErrorRoamingNotAllowed     int32 = 5004
	experimentalErrorInAssignmentType      int32 = 5005
)

// maaOutcome mirrors MARDiameterTransaction::create_answer's dispatch.
func maaOutcome(result, experimental int32, vendor uint32) domain.Outcome {
	switch {
	case result == resultSuccess:
		return domain.OutcomeSuccess
	case result == resultUnableToDeliver:
		return domain.OutcomeServerUnavailable
	case experimental == experimentalErrorUserUnknown && vendor == vendorID3GPP:
		return domain.OutcomeNotFound
	default:
		return domain.OutcomeUnknown
	}
}

// uaaOutcome mirrors UARDiameterTransaction::create_answer's dispatch.
func uaaOutcome(result, experimental int32, vendor uint32) domain.Outcome {
	switch {
	case result == resultSuccess,
		experimental == experimentalFirstRegistration,
		experimental == experimentalSubsequentRegistration:
		return domain.OutcomeSuccess
	case experimental == experimentalErrorUserUnknown,
		experimental == experimentalErrorIdentitiesDontMatch:
		return domain.OutcomeNotFound
	case result == resultAuthorizationRejected,
		experimental == experimentalErrorRoamingNotAllowed:
		return domain.OutcomeForbidden
	case result == resultTooBusy:
		return domain.OutcomeTimeout
	case result == resultUnableToDeliver:
		return domain.OutcomeServerUnavailable
	default:
		return domain.OutcomeUnknown
	}
}

// liaOutcome mirrors LIRDiameterTransaction::create_answer's dispatch.
func liaOutcome(result, experimental int32, vendor uint32) domain.Outcome {
	switch {
	case result == resultSuccess:
		return domain.OutcomeSuccess
	case vendor == vendorID3GPP &&
		(experimental == experimentalUnregisteredService || experimental == experimentalErrorIdentityNotRegistered):
		return domain.OutcomeSuccess
	case vendor == vendorID3GPP && experimental == experimentalErrorUserUnknown:
		return domain.OutcomeNotFound
	case result == resultTooBusy:
		return domain.OutcomeTimeout
	case result == resultUnableToDeliver:
		return domain.OutcomeServerUnavailable
	default:
		return domain.OutcomeUnknown
	}
}

// saaOutcome mirrors SARDiameterTransaction::create_answer's dispatch.
// The NEW_WILDCARD branch is reported regardless of vendor ID, matching
// the original (which does not gate DIAMETER_ERROR_IN_ASSIGNMENT_TYPE on
// VENDOR_ID_3GPP).
func saaOutcome(result, experimental int32, vendor uint32) domain.Outcome {
	switch {
	case result == resultSuccess:
		return domain.OutcomeSuccess
	case result == resultUnableToDeliver:
		return domain.OutcomeServerUnavailable
	case experimental == experimentalErrorUserUnknown && vendor == vendorID3GPP:
		return domain.OutcomeNotFound
	case experimental == experimentalErrorInAssignmentType:
		return domain.OutcomeNewWildcard
	default:
		return domain.OutcomeUnknown
	}
}
