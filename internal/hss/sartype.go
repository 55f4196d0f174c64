package hss

import "github.com/clearwater-hss/cx-gateway/internal/domain"

// Server-Assignment-Type AVP values (§4.2), from the 3GPP Cx dictionary.
const (
	sarTypeRegistration                 int32 = 1
	sarTypeReRegistration               int32 = 2
	sarTypeUnregisteredUser             int32 = 3
	sarTypeTimeoutDeregistration        int32 = 4
	sarTypeUserDeregistration           int32 = 5
	sarTypeAdministrativeDeregistration int32 = 8
	sarTypeAuthenticationFailure        int32 = 9
	sarTypeAuthenticationTimeout        int32 = 10
)

func wireSARType(t domain.ServerAssignmentType) int32 {
	switch t {
	case domain.SARRegistration:
		return sarTypeRegistration
	case domain.SARReRegistration:
		return sarTypeReRegistration
	case domain.SARUnregisteredUser:
		return sarTypeUnregisteredUser
	case domain.SARUserDeregistration:
		return sarTypeUserDeregistration
	case domain.SARAdministrativeDeregistration:
		return sarTypeAdministrativeDeregistration
	case domain.SARTimeoutDeregistration:
		return sarTypeTimeoutDeregistration
	case domain.SARAuthenticationFailure:
		return sarTypeAuthenticationFailure
	case domain.SARAuthenticationTimeout:
		return sarTypeAuthenticationTimeout
	default:
		return 0
	}
}
