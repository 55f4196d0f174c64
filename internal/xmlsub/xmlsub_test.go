package xmlsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
)

const sampleSubscription = `<?xml version="1.0" encoding="UTF-8"?><IMSSubscription><PrivateID>alice@example.com</PrivateID><ServiceProfile><PublicIdentity><Identity>sip:alice@example.com</Identity></PublicIdentity><PublicIdentity><Identity>sip:alice_a@example.com</Identity></PublicIdentity><PublicIdentity><Identity>sip:alice_b@example.com</Identity></PublicIdentity></ServiceProfile></IMSSubscription>`

func TestGetIds(t *testing.T) {
	ids := GetPublicIDs(sampleSubscription)
	assert.Len(t, ids, 3)
	assert.Equal(t, "alice@example.com", GetPrivateID(sampleSubscription))
}

func TestGetIdsInvalidXML(t *testing.T) {
	ids := GetPublicIDs("?xml veron=\"1.0\"?>")
	assert.Empty(t, ids)
	assert.Empty(t, GetPrivateID("?xml veron=\"1.0\"?>"))
}

func TestGetIdsMissingIdentity(t *testing.T) {
	xml := `<IMSSubscription><NoPrivateID></NoPrivateID><ServiceProfile><PublicIdentity><Extension></Extension></PublicIdentity><PublicIdentity><Identity>sip:a@ex</Identity></PublicIdentity><PublicIdentity><Identity>sip:b@ex</Identity></PublicIdentity></ServiceProfile></IMSSubscription>`
	ids := GetPublicIDs(xml)
	assert.Len(t, ids, 2)
	assert.Empty(t, GetPrivateID(xml))
}

func TestGetPrivateIDNull(t *testing.T) {
	xml := `<IMSSubscription><PrivateID>null</PrivateID></IMSSubscription>`
	assert.Equal(t, "", GetPrivateID(xml))
}

func TestGetDefaultIDSkipsBarred(t *testing.T) {
	xml := `<IMSSubscription><ServiceProfile>` +
		`<PublicIdentity><Identity>sip:barred@ex</Identity><BarringIndication>1</BarringIndication></PublicIdentity>` +
		`<PublicIdentity><Identity>sip:open@ex</Identity><BarringIndication>0</BarringIndication></PublicIdentity>` +
		`</ServiceProfile></IMSSubscription>`
	assert.Equal(t, "sip:open@ex", GetDefaultID(xml))
}

func TestBuildClearwaterRegDataXML_Mainline(t *testing.T) {
	charging := domain.ChargingAddresses{CCFs: []string{"ccf1", "ccf2"}, ECFs: []string{"ecf1", "ecf2"}}
	out, err := BuildClearwaterRegDataXML(domain.RegistrationStateRegistered, `<IMSSubscription>test</IMSSubscription>`, charging, "")
	require.NoError(t, err)
	assert.Contains(t, out, "<RegistrationState>REGISTERED</RegistrationState>")
	assert.Contains(t, out, "<IMSSubscription>test</IMSSubscription>")
	assert.Contains(t, out, `<CCF priority="1">ccf1</CCF>`)
	assert.Contains(t, out, `<CCF priority="2">ccf2</CCF>`)
	assert.Contains(t, out, `<ECF priority="1">ecf1</ECF>`)
	assert.Contains(t, out, `<ECF priority="2">ecf2</ECF>`)
}

func TestBuildClearwaterRegDataXML_Unregistered_NoCharging(t *testing.T) {
	out, err := BuildClearwaterRegDataXML(domain.RegistrationStateUnregistered, `<IMSSubscription>test</IMSSubscription>`, domain.ChargingAddresses{}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "<RegistrationState>UNREGISTERED</RegistrationState>")
	assert.NotContains(t, out, "ChargingAddresses")
}

func TestBuildClearwaterRegDataXML_PreviousState(t *testing.T) {
	out, err := BuildClearwaterRegDataXML(domain.RegistrationStateRegistered, `<IMSSubscription>test</IMSSubscription>`, domain.ChargingAddresses{}, domain.RegistrationStateNotRegistered)
	require.NoError(t, err)
	assert.Contains(t, out, "<PreviousRegistrationState>NOT_REGISTERED</PreviousRegistrationState>")
}

func TestBuildClearwaterRegDataXML_MissingRoot(t *testing.T) {
	_, err := BuildClearwaterRegDataXML(domain.RegistrationStateRegistered, `<IMSSubscriptionwrong>test</IMSSubscriptionwrong>`, domain.ChargingAddresses{}, "")
	assert.ErrorIs(t, err, domain.ErrMissingIMSSubRoot)
}

func TestBuildClearwaterRegDataXML_MalformedXML(t *testing.T) {
	_, err := BuildClearwaterRegDataXML(domain.RegistrationStateRegistered, `<InvalidXML</IMSSubscription>`, domain.ChargingAddresses{}, "")
	assert.Error(t, err)
}

func TestBuildClearwaterRegDataXML_StripsNamespace(t *testing.T) {
	out, err := BuildClearwaterRegDataXML(domain.RegistrationStateRegistered, `<ns:IMSSubscription xmlns:ns="urn:example"><ns:PrivateID>x</ns:PrivateID></ns:IMSSubscription>`, domain.ChargingAddresses{}, "")
	require.NoError(t, err)
	assert.NotContains(t, out, "ns:")
	assert.NotContains(t, out, "xmlns")
}
