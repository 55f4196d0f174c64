package hss

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
)

func TestMaaOutcome(t *testing.T) {
	cases := []struct {
		name         string
		result, exp  int32
		vendor       uint32
		want         domain.Outcome
	}{
		{"success", resultSuccess, 0, 0, domain.OutcomeSuccess},
		{"unable to deliver", resultUnableToDeliver, 0, 0, domain.OutcomeServerUnavailable},
		{"user unknown", 0, experimentalErrorUserUnknown, vendorID3GPP, domain.OutcomeNotFound},
		{"user unknown wrong vendor", 0, experimentalErrorUserUnknown, 0, domain.OutcomeUnknown},
		{"unmapped", 9999, 0, 0, domain.OutcomeUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, maaOutcome(c.result, c.exp, c.vendor))
		})
	}
}

func TestUaaOutcome(t *testing.T) {
	cases := []struct {
		name        string
		result, exp int32
		vendor      uint32
		want        domain.Outcome
	}{
		{"success", resultSuccess, 0, 0, domain.OutcomeSuccess},
		{"first registration", 0, experimentalFirstRegistration, 0, domain.OutcomeSuccess},
		{"subsequent registration", 0, experimentalSubsequentRegistration, 0, domain.OutcomeSuccess},
		{"user unknown", 0, experimentalErrorUserUnknown, 0, domain.OutcomeNotFound},
		{"identities dont match", 0, experimentalErrorIdentitiesDontMatch, 0, domain.OutcomeNotFound},
		{"authorization rejected", resultAuthorizationRejected, 0, 0, domain.OutcomeForbidden},
		{"roaming not allowed", 0, experimentalErrorRoamingNotAllowed, 0, domain.OutcomeForbidden},
		{"too busy", resultTooBusy, 0, 0, domain.OutcomeTimeout},
		{"unable to deliver", resultUnableToDeliver, 0, 0, domain.OutcomeServerUnavailable},
		{"unmapped", 9999, 0, 0, domain.OutcomeUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, uaaOutcome(c.result, c.exp, c.vendor))
		})
	}
}

func TestLiaOutcome(t *testing.T) {
	cases := []struct {
		name        string
		result, exp int32
		vendor      uint32
		want        domain.Outcome
	}{
		{"success", resultSuccess, 0, 0, domain.OutcomeSuccess},
		{"unregistered service", 0, experimentalUnregisteredService, vendorID3GPP, domain.OutcomeSuccess},
		{"identity not registered", 0, experimentalErrorIdentityNotRegistered, vendorID3GPP, domain.OutcomeSuccess},
		{"user unknown", 0, experimentalErrorUserUnknown, vendorID3GPP, domain.OutcomeNotFound},
		{"too busy", resultTooBusy, 0, 0, domain.OutcomeTimeout},
		{"unable to deliver", resultUnableToDeliver, 0, 0, domain.OutcomeServerUnavailable},
		{"unmapped", 9999, 0, 0, domain.OutcomeUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, liaOutcome(c.result, c.exp, c.vendor))
		})
	}
}

func TestSaaOutcome(t *testing.T) {
	cases := []struct {
		name        string
		result, exp int32
		vendor      uint32
		want        domain.Outcome
	}{
		{"success", resultSuccess, 0, 0, domain.OutcomeSuccess},
		{"unable to deliver", resultUnableToDeliver, 0, 0, domain.OutcomeServerUnavailable},
		{"user unknown", 0, experimentalErrorUserUnknown, vendorID3GPP, domain.OutcomeNotFound},
		{"wrong assignment type", 0, experimentalErrorInAssignmentType, 0, domain.OutcomeNewWildcard},
		{"wrong assignment type, wire value 5005", 0, 5005, 0, domain.OutcomeNewWildcard},
		{"unmapped", 9999, 0, 0, domain.OutcomeUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, saaOutcome(c.result, c.exp, c.vendor))
		})
	}
}
