package domain

// RegistrationTerminationRequest is the RTR (§4.4.1): an HSS-initiated
// notification that one or more registrations must be torn down.
type RegistrationTerminationRequest struct {
	Reason                DeregistrationReason
	IMPI                   string
	AssociatedIdentities   []string
	IMPUs                  []string // present only for some reason codes
}

// RegistrationTerminationResult carries the HSS answer code for an RTR.
type RegistrationTerminationResult struct {
	Success bool
}

// PushProfileRequest is the PPR (§4.4.2): an HSS-initiated push of new
// subscription XML and/or new charging addresses for impi's subscription.
type PushProfileRequest struct {
	IMPI             string
	SubscriptionXML  string // empty if no XML change
	Charging         ChargingAddresses
	HasCharging      bool
}

// PushProfileResult carries the HSS answer code for a PPR.
type PushProfileResult struct {
	Success bool
}
