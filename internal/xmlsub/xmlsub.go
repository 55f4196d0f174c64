// Package xmlsub implements C6, the IMS subscription XML codec (§4.6),
// grounded on original_source/src/homestead_xml_utils.cpp. The C++ source
// parses with rapidxml's parse_strip_xml_namespaces flag and then matches
// local element names only; encoding/xml's decoder already exposes a
// separate Local/Space per xml.Name, so matching on Local reproduces the
// same namespace-stripping behaviour without a third-party XML library —
// none of the retrieved repos parses XML, so there is no pack precedent to
// follow here, and the standard decoder covers this directly.
package xmlsub

import (
	"encoding/xml"
	"strings"
)

const stateUnbarred = "0"

type subscriptionDoc struct {
	XMLName         xml.Name         `xml:"IMSSubscription"`
	PrivateID       string           `xml:"PrivateID"`
	ServiceProfiles []serviceProfile `xml:"ServiceProfile"`
}

type serviceProfile struct {
	PublicIdentities []publicIdentity `xml:"PublicIdentity"`
}

type publicIdentity struct {
	Identity          string `xml:"Identity"`
	BarringIndication string `xml:"BarringIndication"`
}

// parseLenient mirrors get_public_and_default_ids/get_private_id's own
// error handling: a parse error or missing root simply yields a zero-value
// document, not a propagated failure — only build_ClearwaterRegData_xml's
// stricter caller surfaces those as errors (see stripNamespaces).
func parseLenient(userData string) *subscriptionDoc {
	dec := xml.NewDecoder(strings.NewReader(userData))
	var doc subscriptionDoc

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "IMSSubscription" {
			_ = dec.DecodeElement(&doc, &start)
			break
		}
	}
	return &doc
}

// GetPublicIDs returns every public identity carried by the subscription,
// in document order, de-duplicated (get_public_ids).
func GetPublicIDs(userData string) []string {
	ids, _ := GetPublicAndDefaultIDs(userData)
	return ids
}

// GetDefaultID returns the first unbarred public identity
// (get_default_id).
func GetDefaultID(userData string) string {
	_, def := GetPublicAndDefaultIDs(userData)
	return def
}

// GetPublicAndDefaultIDs walks ServiceProfile/PublicIdentity/Identity and
// returns the de-duplicated public-ID list plus the first unbarred one
// (get_public_and_default_ids). A PublicIdentity with no BarringIndication
// is treated as unbarred, matching the C++ default. Malformed XML yields
// an empty list and no default, not an error.
func GetPublicAndDefaultIDs(userData string) ([]string, string) {
	doc := parseLenient(userData)

	var publicIDs []string
	var defaultID string
	seen := make(map[string]bool)

	for _, sp := range doc.ServiceProfiles {
		for _, pi := range sp.PublicIdentities {
			if pi.Identity == "" || seen[pi.Identity] {
				continue
			}
			seen[pi.Identity] = true
			publicIDs = append(publicIDs, pi.Identity)

			barring := pi.BarringIndication
			if barring == "" {
				barring = stateUnbarred
			}
			if barring == stateUnbarred && defaultID == "" {
				defaultID = pi.Identity
			}
		}
	}

	return publicIDs, defaultID
}

// GetPrivateID returns the subscription's <PrivateID>, or "" if it is
// absent, the XML is malformed, or it is literally "null" (get_private_id).
func GetPrivateID(userData string) string {
	doc := parseLenient(userData)
	if doc.PrivateID == "null" {
		return ""
	}
	return doc.PrivateID
}
