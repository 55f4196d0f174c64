package jsonresp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
)

func TestDigest(t *testing.T) {
	body, err := Digest(domain.AuthVector{Digest: domain.DigestAuthVector{HA1: "abc123"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"digest_ha1":"abc123"}`, string(body))
}

func TestAKA(t *testing.T) {
	body, err := AKA(domain.AuthVector{AKA: domain.AKAAuthVector{Challenge: "c", Response: "r", CryptKey: "ck", IntegrityKey: "ik", Version: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"aka":{"challenge":"c","response":"r","cryptkey":"ck","integritykey":"ik","version":2}}`, string(body))
}

func TestLocationInfo_CapabilitiesNeverNull(t *testing.T) {
	body, err := LocationInfo(2001, "", domain.ServerCapabilities{}, "")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, []interface{}{}, decoded["mandatory-capabilities"])
	assert.Equal(t, []interface{}{}, decoded["optional-capabilities"])
	assert.NotContains(t, decoded, "wildcard-identity")
}

func TestLocationInfo_WithWildcard(t *testing.T) {
	body, err := LocationInfo(2001, "sip:scscf@ex", domain.ServerCapabilities{Mandatory: []int32{1, 3}, Optional: []int32{2, 4}}, "sip:!.*!@ex")
	require.NoError(t, err)
	assert.JSONEq(t, `{"result-code":2001,"scscf":"sip:scscf@ex","mandatory-capabilities":[1,3],"optional-capabilities":[2,4],"wildcard-identity":"sip:!.*!@ex"}`, string(body))
}

func TestParseRegDataPutBody(t *testing.T) {
	body, err := ParseRegDataPutBody([]byte(`{"reqtype":"reg","server_name":"sip:scscf@ex"}`))
	require.NoError(t, err)
	assert.Equal(t, "reg", body.ReqType)
	assert.Equal(t, "sip:scscf@ex", body.ServerName)
}

func TestBuildDeregisterBindingsBody_Cartesian(t *testing.T) {
	regs := []domain.RouterRegistration{
		{PrimaryIMPU: "sip:a@ex", IMPI: "impi1@ex"},
		{PrimaryIMPU: "sip:a@ex", IMPI: "impi2@ex"},
		{PrimaryIMPU: "sip:b@ex", IMPI: "impi1@ex"},
		{PrimaryIMPU: "sip:b@ex", IMPI: "impi2@ex"},
	}
	body, err := BuildDeregisterBindingsBody(regs)
	require.NoError(t, err)

	var decoded DeregisterBindingsBody
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Len(t, decoded.Registrations, 4)
}
