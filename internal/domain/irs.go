package domain

// RegistrationState is the three-valued registration state of an IRS (§3).
type RegistrationState string

const (
	RegistrationStateRegistered    RegistrationState = "REGISTERED"
	RegistrationStateUnregistered  RegistrationState = "UNREGISTERED"
	RegistrationStateNotRegistered RegistrationState = "NOT_REGISTERED"
)

// ChargingAddresses holds the two ordered CCF/ECF sequences, priority implied
// by position, each up to two entries (§3).
type ChargingAddresses struct {
	CCFs []string
	ECFs []string
}

// Clone returns an independent copy so that callers can hand out a
// ChargingAddresses without aliasing the original slices.
func (c ChargingAddresses) Clone() ChargingAddresses {
	out := ChargingAddresses{}
	if len(c.CCFs) > 0 {
		out.CCFs = append([]string(nil), c.CCFs...)
	}
	if len(c.ECFs) > 0 {
		out.ECFs = append([]string(nil), c.ECFs...)
	}
	return out
}

// Equal reports whether two ChargingAddresses carry the same CCF/ECF lists
// in the same order.
func (c ChargingAddresses) Equal(o ChargingAddresses) bool {
	if len(c.CCFs) != len(o.CCFs) || len(c.ECFs) != len(o.ECFs) {
		return false
	}
	for i := range c.CCFs {
		if c.CCFs[i] != o.CCFs[i] {
			return false
		}
	}
	for i := range c.ECFs {
		if c.ECFs[i] != o.ECFs[i] {
			return false
		}
	}
	return true
}

// IRS is the Implicit Registration Set — the unit of caching and of HSS
// assignment (§3).
type IRS struct {
	// DefaultPublicID is the first public identity in SubscriptionXML whose
	// barring indication is not set. Stable for the lifetime of the IRS.
	DefaultPublicID string

	// PublicIDs lists every public identity carried by SubscriptionXML.
	// Deleting the IRS removes the cache entry for each of these.
	PublicIDs []string

	// Barred is set when every public identity in the subscription is
	// barred; the IRS remains usable, but flagged.
	Barred bool

	// SubscriptionXML is the IMS subscription document.
	SubscriptionXML string

	State RegistrationState

	// AssociatedPrivateIDs is the set of private identities bound to this
	// IRS, distinct from SubscriptionXML's own <PrivateID>.
	AssociatedPrivateIDs []string

	Charging ChargingAddresses

	// TTL is the number of seconds until re-validation with the HSS is
	// required.
	TTL int

	// Dirty marks an IRS touched since retrieval; put_ims_subscription
	// writes only dirty members (§4.1).
	Dirty bool
}

// NewEmptyIRS is the cache processor's create_irs() factory (§4.1):
// synchronous, no HSS or backend round-trip.
func NewEmptyIRS() *IRS {
	return &IRS{State: RegistrationStateNotRegistered}
}

// HasImpi reports whether impi is already associated with the IRS.
func (irs *IRS) HasImpi(impi string) bool {
	for _, p := range irs.AssociatedPrivateIDs {
		if p == impi {
			return true
		}
	}
	return false
}

// AddImpi associates impi with the IRS, if not already present.
func (irs *IRS) AddImpi(impi string) {
	if impi == "" || irs.HasImpi(impi) {
		return
	}
	irs.AssociatedPrivateIDs = append(irs.AssociatedPrivateIDs, impi)
}

// SetCharging replaces the charging addresses, marking the IRS dirty only
// when the values actually change.
func (irs *IRS) SetCharging(addrs ChargingAddresses) {
	if irs.Charging.Equal(addrs) {
		return
	}
	irs.Charging = addrs.Clone()
	irs.Dirty = true
}

// SetSubscriptionXML replaces the subscription document and marks the IRS
// dirty.
func (irs *IRS) SetSubscriptionXML(xml string) {
	irs.SubscriptionXML = xml
	irs.Dirty = true
}
