// Package hss implements C2, the live HSS connection (§4.2): translating
// domain-level Cx requests to transport.Client calls and their raw
// answers back to domain.Outcome, grounded on
// original_source/src/diameter_hss_connection.cpp's create_answer
// methods (§9's design notes: the callback-chained C++ transaction
// collapses to a single blocking method per request).
package hss

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
	"github.com/clearwater-hss/cx-gateway/internal/hss/transport"
	"github.com/clearwater-hss/cx-gateway/internal/metrics"
)

// Schemes holds the three SIP-Auth-Data-Item scheme strings this gateway
// recognises (§6's scheme_digest/akav1/akav2 configuration).
type Schemes struct {
	Digest string
	AKAv1  string
	AKAv2  string
}

// DefaultSchemes returns the standard 3GPP scheme strings.
func DefaultSchemes() Schemes {
	return Schemes{
		Digest: "SIP Digest",
		AKAv1:  "Digest-AKAv1-MD5",
		AKAv2:  "Digest-AKAv2-SHA-256",
	}
}

// Connection is the live domain.HSSConnection implementation.
type Connection struct {
	client  transport.Client
	schemes Schemes
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New wraps a transport.Client as a domain.HSSConnection.
func New(client transport.Client, schemes Schemes, logger *zap.Logger, m *metrics.Metrics) *Connection {
	return &Connection{client: client, schemes: schemes, logger: logger, metrics: m}
}

func (c *Connection) observe(messageType string, outcome domain.Outcome, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveHSS(messageType, outcome.String(), start)
	}
}

// MultimediaAuth sends a Multimedia-Auth-Request and maps the answer.
func (c *Connection) MultimediaAuth(ctx context.Context, req domain.MultimediaAuthRequest) (*domain.MultimediaAuthAnswer, error) {
	start := time.Now()
	raw, err := c.client.MultimediaAuth(ctx, transport.MARRequest{
		IMPI:          req.IMPI,
		IMPU:          req.IMPU,
		ServerName:    req.ServerName,
		SIPAuthScheme: req.Scheme,
		Authorization: req.Authorization,
	})
	if errors.Is(err, transport.ErrTimeout) {
		c.observe("MAR", domain.OutcomeTimeout, start)
		return &domain.MultimediaAuthAnswer{Outcome: domain.OutcomeTimeout}, nil
	}
	if err != nil {
		return nil, err
	}

	outcome := maaOutcome(raw.ResultCode, raw.ExperimentalResult, raw.VendorID)
	answer := &domain.MultimediaAuthAnswer{Outcome: outcome, Scheme: raw.SIPAuthScheme}

	if outcome == domain.OutcomeSuccess {
		switch raw.SIPAuthScheme {
		case c.schemes.Digest:
			answer.AV = domain.AuthVector{
				Kind: domain.AuthVectorDigest,
				Digest: domain.DigestAuthVector{
					HA1:   raw.DigestHA1,
					Realm: raw.DigestRealm,
					QoP:   raw.DigestQoP,
				},
			}
		case c.schemes.AKAv1, c.schemes.AKAv2:
			version := 1
			if raw.SIPAuthScheme == c.schemes.AKAv2 {
				version = 2
			}
			answer.AV = domain.AuthVector{
				Kind: domain.AuthVectorAKA,
				AKA: domain.AKAAuthVector{
					Challenge:    raw.AKAChallenge,
					Response:     raw.AKAResponse,
					CryptKey:     raw.AKACryptKey,
					IntegrityKey: raw.AKAIntegrityKey,
					Version:      version,
				},
			}
		default:
			answer.Outcome = domain.OutcomeUnknownAuthScheme
			if c.logger != nil {
				c.logger.Warn("hss: unrecognised auth scheme", zap.String("scheme", raw.SIPAuthScheme), zap.String("impi", req.IMPI))
			}
		}
	}

	c.observe("MAR", answer.Outcome, start)
	return answer, nil
}

// UserAuth sends a User-Authorization-Request and maps the answer.
func (c *Connection) UserAuth(ctx context.Context, req domain.UserAuthRequest) (*domain.UserAuthAnswer, error) {
	start := time.Now()
	raw, err := c.client.UserAuth(ctx, transport.UARRequest{
		IMPI:           req.IMPI,
		IMPU:           req.IMPU,
		VisitedNetwork: req.VisitedNetwork,
		AuthType:       req.AuthType,
		Emergency:      req.Emergency,
	})
	if errors.Is(err, transport.ErrTimeout) {
		c.observe("UAR", domain.OutcomeTimeout, start)
		return &domain.UserAuthAnswer{Outcome: domain.OutcomeTimeout}, nil
	}
	if err != nil {
		return nil, err
	}

	outcome := uaaOutcome(raw.ResultCode, raw.ExperimentalResult, raw.VendorID)
	answer := &domain.UserAuthAnswer{Outcome: outcome}
	if outcome == domain.OutcomeSuccess {
		if raw.ServerName != "" {
			answer.ServerName = raw.ServerName
		} else {
			answer.Capabilities = domain.ServerCapabilities{
				Mandatory: raw.CapabilitiesMandatory,
				Optional:  raw.CapabilitiesOptional,
			}
		}
	}

	c.observe("UAR", outcome, start)
	return answer, nil
}

// LocationInfo sends a Location-Info-Request and maps the answer.
func (c *Connection) LocationInfo(ctx context.Context, req domain.LocationInfoRequest) (*domain.LocationInfoAnswer, error) {
	start := time.Now()
	raw, err := c.client.LocationInfo(ctx, transport.LIRRequest{
		IMPU:        req.IMPU,
		Originating: req.Originating,
		AuthType:    req.AuthType,
	})
	if errors.Is(err, transport.ErrTimeout) {
		c.observe("LIR", domain.OutcomeTimeout, start)
		return &domain.LocationInfoAnswer{Outcome: domain.OutcomeTimeout}, nil
	}
	if err != nil {
		return nil, err
	}

	outcome := liaOutcome(raw.ResultCode, raw.ExperimentalResult, raw.VendorID)
	answer := &domain.LocationInfoAnswer{Outcome: outcome, Wildcard: raw.WildcardIMPU}
	if outcome == domain.OutcomeSuccess {
		if raw.ServerName != "" {
			answer.ServerName = raw.ServerName
		} else {
			answer.Capabilities = domain.ServerCapabilities{
				Mandatory: raw.CapabilitiesMandatory,
				Optional:  raw.CapabilitiesOptional,
			}
		}
	}

	c.observe("LIR", outcome, start)
	return answer, nil
}

// ServerAssignment sends a Server-Assignment-Request and maps the answer.
func (c *Connection) ServerAssignment(ctx context.Context, req domain.ServerAssignmentRequest) (*domain.ServerAssignmentAnswer, error) {
	start := time.Now()
	raw, err := c.client.ServerAssignment(ctx, transport.SARRequest{
		IMPI:              req.IMPI,
		IMPU:              req.IMPU,
		ServerName:        req.ServerName,
		Type:              wireSARType(req.Type),
		SupportSharedIFCs: req.SupportSharedIFCs,
		WildcardIMPU:      req.WildcardIMPU,
	})
	if errors.Is(err, transport.ErrTimeout) {
		c.observe("SAR", domain.OutcomeTimeout, start)
		return &domain.ServerAssignmentAnswer{Outcome: domain.OutcomeTimeout}, nil
	}
	if err != nil {
		return nil, err
	}

	outcome := saaOutcome(raw.ResultCode, raw.ExperimentalResult, raw.VendorID)
	answer := &domain.ServerAssignmentAnswer{Outcome: outcome, Wildcard: raw.WildcardIMPU}
	if outcome == domain.OutcomeSuccess {
		answer.Charging = domain.ChargingAddresses{CCFs: raw.ChargingCCFs, ECFs: raw.ChargingECFs}
		answer.ServiceProfile = raw.UserData
	}

	c.observe("SAR", outcome, start)
	return answer, nil
}

var _ domain.HSSConnection = (*Connection)(nil)
