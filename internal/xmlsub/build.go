package xmlsub

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
)

func wireState(state domain.RegistrationState) string {
	switch state {
	case domain.RegistrationStateRegistered:
		return "REGISTERED"
	case domain.RegistrationStateUnregistered:
		return "UNREGISTERED"
	default:
		return "NOT_REGISTERED"
	}
}

// stripNamespaces re-serialises userData with every namespace prefix and
// xmlns declaration removed, mirroring rapidxml's parse_strip_xml_namespaces
// mode used by add_ims_subscription_node before the fragment is spliced
// into the reply document.
func stripNamespaces(userData string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(userData))
	var out strings.Builder
	enc := xml.NewEncoder(&out)

	depth := 0
	started := false
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", domain.ErrMalformedSubXML
		}
		start, isStart := tok.(xml.StartElement)
		if !started {
			if !isStart {
				continue // skip the prologue: proc-insts, comments, whitespace
			}
			if start.Name.Local != "IMSSubscription" {
				return "", domain.ErrMissingIMSSubRoot
			}
			started = true
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			t.Name.Space = ""
			attrs := t.Attr[:0]
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				a.Name.Space = ""
				attrs = append(attrs, a)
			}
			t.Attr = attrs
			if err := enc.EncodeToken(t); err != nil {
				return "", domain.ErrMalformedSubXML
			}
		case xml.EndElement:
			depth--
			t.Name.Space = ""
			if err := enc.EncodeToken(t); err != nil {
				return "", domain.ErrMalformedSubXML
			}
		default:
			if err := enc.EncodeToken(tok); err != nil {
				return "", domain.ErrMalformedSubXML
			}
		}
		if depth == 0 {
			break
		}
	}
	if err := enc.Flush(); err != nil {
		return "", domain.ErrMalformedSubXML
	}
	if !started {
		return "", domain.ErrMissingIMSSubRoot
	}
	return out.String(), nil
}

// BuildClearwaterRegDataXML assembles the reply document described in §4.3.4:
// RegistrationState, the cloned namespace-stripped subscription XML, charging
// addresses with priority attributes, and — when prevState is non-empty — a
// sibling PreviousRegistrationState (build_ClearwaterRegData_xml).
func BuildClearwaterRegDataXML(state domain.RegistrationState, userData string, charging domain.ChargingAddresses, prevState domain.RegistrationState) (string, error) {
	var body strings.Builder
	body.WriteString("<ClearwaterRegData>")
	body.WriteString("<RegistrationState>")
	body.WriteString(wireState(state))
	body.WriteString("</RegistrationState>")

	if userData != "" {
		stripped, err := stripNamespaces(userData)
		if err != nil {
			return "", err
		}
		body.WriteString(stripped)
	}

	if len(charging.CCFs) > 0 || len(charging.ECFs) > 0 {
		body.WriteString(renderChargingAddresses(charging))
	}

	if prevState != "" {
		body.WriteString("<PreviousRegistrationState>")
		body.WriteString(wireState(prevState))
		body.WriteString("</PreviousRegistrationState>")
	}

	body.WriteString("</ClearwaterRegData>")
	return body.String(), nil
}

func renderChargingAddresses(c domain.ChargingAddresses) string {
	var b strings.Builder
	b.WriteString("<ChargingAddresses>")
	for i, ccf := range c.CCFs {
		if i > 1 {
			break
		}
		b.WriteString(`<CCF priority="`)
		b.WriteString(priorityAttr(i))
		b.WriteString(`">`)
		b.WriteString(xmlEscape(ccf))
		b.WriteString("</CCF>")
	}
	for i, ecf := range c.ECFs {
		if i > 1 {
			break
		}
		b.WriteString(`<ECF priority="`)
		b.WriteString(priorityAttr(i))
		b.WriteString(`">`)
		b.WriteString(xmlEscape(ecf))
		b.WriteString("</ECF>")
	}
	b.WriteString("</ChargingAddresses>")
	return b.String()
}

func priorityAttr(index int) string {
	if index == 0 {
		return "1"
	}
	return "2"
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
