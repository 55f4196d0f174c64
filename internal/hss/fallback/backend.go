// Package fallback implements C2 against a Postgres provisioning store
// instead of a live Diameter HSS (§6's hss_configured, OQ-4), grounded on
// original_source/src/hsprov_hss_connection.cpp: a MAR/LIR/SAR lookup hits
// the store directly and any store error short of "not found" is reported
// as OutcomeServerUnavailable so the router sees the same 503 it would get
// from an unavailable HSS. UserAuth never touches the
// store — it fakes a success naming the locally configured server, exactly
// as HsProvHssConnection::send_user_auth_request does.
package fallback

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
)

// Backend is the provisioning-store-backed domain.HSSConnection.
type Backend struct {
	db         *pgxpool.Pool
	serverName string
	logger     *zap.Logger
}

// New wraps an already-connected pool. serverName is returned on every
// UserAuth and LocationInfo success as the locally configured S-CSCF name.
func New(db *pgxpool.Pool, serverName string, logger *zap.Logger) *Backend {
	return &Backend{db: db, serverName: serverName, logger: logger}
}

// MultimediaAuth looks up the digest auth vector provisioned for
// (impi, impu). The fallback store holds digest credentials only — it
// has no notion of AKA.
func (b *Backend) MultimediaAuth(ctx context.Context, req domain.MultimediaAuthRequest) (*domain.MultimediaAuthAnswer, error) {
	const query = `
		SELECT digest_ha1, digest_realm, digest_qop
		FROM hss_subscribers
		WHERE impi = $1 AND impu = $2`

	var ha1, realm, qop string
	err := b.db.QueryRow(ctx, query, req.IMPI, req.IMPU).Scan(&ha1, &realm, &qop)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return &domain.MultimediaAuthAnswer{Outcome: domain.OutcomeNotFound}, nil
	case err != nil:
		b.logQueryError("MultimediaAuth", err)
		return &domain.MultimediaAuthAnswer{Outcome: domain.OutcomeServerUnavailable}, nil
	}

	return &domain.MultimediaAuthAnswer{
		Outcome: domain.OutcomeSuccess,
		Scheme:  "SIP Digest",
		AV: domain.AuthVector{
			Kind:   domain.AuthVectorDigest,
			Digest: domain.DigestAuthVector{HA1: ha1, Realm: realm, QoP: qop},
		},
	}, nil
}

// UserAuth never consults the store: the fallback deployment has exactly
// one S-CSCF, itself, so every user is authorized onto it.
func (b *Backend) UserAuth(ctx context.Context, req domain.UserAuthRequest) (*domain.UserAuthAnswer, error) {
	return &domain.UserAuthAnswer{Outcome: domain.OutcomeSuccess, ServerName: b.serverName}, nil
}

// LocationInfo checks that impu is provisioned in the store and reports
// the locally configured server as already assigned.
func (b *Backend) LocationInfo(ctx context.Context, req domain.LocationInfoRequest) (*domain.LocationInfoAnswer, error) {
	const query = `SELECT 1 FROM hss_subscribers WHERE impu = $1 LIMIT 1`

	var exists int
	err := b.db.QueryRow(ctx, query, req.IMPU).Scan(&exists)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return &domain.LocationInfoAnswer{Outcome: domain.OutcomeNotFound}, nil
	case err != nil:
		b.logQueryError("LocationInfo", err)
		return &domain.LocationInfoAnswer{Outcome: domain.OutcomeServerUnavailable}, nil
	}

	return &domain.LocationInfoAnswer{Outcome: domain.OutcomeSuccess, ServerName: b.serverName}, nil
}

// ServerAssignment consults the store only for the three SAR types that
// need subscription data (REGISTRATION, RE_REGISTRATION,
// UNREGISTERED_USER); every other type is a deregistration the router
// already has what it needs for, so it succeeds trivially.
func (b *Backend) ServerAssignment(ctx context.Context, req domain.ServerAssignmentRequest) (*domain.ServerAssignmentAnswer, error) {
	switch req.Type {
	case domain.SARRegistration, domain.SARReRegistration, domain.SARUnregisteredUser:
		const query = `
			SELECT subscription_xml, ccf_primary, ccf_secondary, ecf_primary, ecf_secondary
			FROM hss_subscribers
			WHERE impu = $1`

		var xml, ccfPrimary, ccfSecondary, ecfPrimary, ecfSecondary string
		err := b.db.QueryRow(ctx, query, req.IMPU).Scan(&xml, &ccfPrimary, &ccfSecondary, &ecfPrimary, &ecfSecondary)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return &domain.ServerAssignmentAnswer{Outcome: domain.OutcomeNotFound}, nil
		case err != nil:
			b.logQueryError("ServerAssignment", err)
			return &domain.ServerAssignmentAnswer{Outcome: domain.OutcomeServerUnavailable}, nil
		}

		charging := domain.ChargingAddresses{}
		if ccfPrimary != "" {
			charging.CCFs = append(charging.CCFs, ccfPrimary)
		}
		if ccfSecondary != "" {
			charging.CCFs = append(charging.CCFs, ccfSecondary)
		}
		if ecfPrimary != "" {
			charging.ECFs = append(charging.ECFs, ecfPrimary)
		}
		if ecfSecondary != "" {
			charging.ECFs = append(charging.ECFs, ecfSecondary)
		}

		return &domain.ServerAssignmentAnswer{
			Outcome:        domain.OutcomeSuccess,
			ServiceProfile: xml,
			Charging:       charging,
		}, nil

	default:
		return &domain.ServerAssignmentAnswer{Outcome: domain.OutcomeSuccess}, nil
	}
}

func (b *Backend) logQueryError(op string, err error) {
	if b.logger != nil {
		b.logger.Error("fallback: provisioning store query failed", zap.String("op", op), zap.Error(err))
	}
}

var _ domain.HSSConnection = (*Backend)(nil)
