// Package cxgateway is a thin Go client for the Cx gateway's router-facing
// HTTP surface (§4.3), in the shape of the teacher's pkg/client/go/arasauth
// client: a baseURL + *http.Client pair with a request/response helper,
// since a Cx gateway client has exactly the same "call a JSON/XML HTTP API"
// shape as an auth-service client.
package cxgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client calls a Cx gateway's router-facing endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Cx gateway client against baseURL, e.g.
// "http://homestead:8888".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Digest is the §4.3.1 digest-only AV reply.
type Digest struct {
	DigestHA1 string `json:"digest_ha1"`
}

// AKAVector is the §4.3.1 full AKA AV reply payload.
type AKAVector struct {
	Challenge    string `json:"challenge"`
	Response     string `json:"response"`
	CryptKey     string `json:"cryptkey"`
	IntegrityKey string `json:"integritykey"`
	Version      int    `json:"version"`
}

// AKA is the §4.3.1 full AKA AV reply envelope.
type AKA struct {
	AKA AKAVector `json:"aka"`
}

// ServerAssignmentStatus is the shared §4.3.2/§4.3.3 reply shape.
type ServerAssignmentStatus struct {
	ResultCode            int     `json:"result-code"`
	SCSCF                 string  `json:"scscf,omitempty"`
	MandatoryCapabilities []int32 `json:"mandatory-capabilities"`
	OptionalCapabilities  []int32 `json:"optional-capabilities"`
	WildcardIdentity      string  `json:"wildcard-identity,omitempty"`
}

// RegDataPutRequest is the §4.3.4 PUT request body.
type RegDataPutRequest struct {
	ReqType          string `json:"reqtype"`
	ServerName       string `json:"server_name,omitempty"`
	WildcardIdentity string `json:"wildcard_identity,omitempty"`
}

// Digest fetches GET /impi/{impi}/digest.
func (c *Client) Digest(ctx context.Context, impi, publicID string) (*Digest, error) {
	endpoint := fmt.Sprintf("/impi/%s/digest?public_id=%s", url.PathEscape(impi), url.QueryEscape(publicID))
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var out Digest
	if err := c.handleResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AKA fetches GET /impi/{impi}/{scheme} for an AKA scheme ("aka" or "aka2").
func (c *Client) AKA(ctx context.Context, impi, scheme, publicID, serverName, resyncAuth string) (*AKA, error) {
	q := url.Values{}
	q.Set("public_id", publicID)
	if serverName != "" {
		q.Set("server-name", serverName)
	}
	if resyncAuth != "" {
		q.Set("resync-auth", resyncAuth)
	}
	endpoint := fmt.Sprintf("/impi/%s/%s?%s", url.PathEscape(impi), url.PathEscape(scheme), q.Encode())
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var out AKA
	if err := c.handleResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegistrationStatus fetches GET /impi/{impi}/registration-status.
func (c *Client) RegistrationStatus(ctx context.Context, impi, impu, visitedNetwork string) (*ServerAssignmentStatus, error) {
	q := url.Values{"impu": {impu}}
	if visitedNetwork != "" {
		q.Set("visited-network", visitedNetwork)
	}
	endpoint := fmt.Sprintf("/impi/%s/registration-status?%s", url.PathEscape(impi), q.Encode())
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var out ServerAssignmentStatus
	if err := c.handleResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LocationInfo fetches GET /impu/{impu}/location.
func (c *Client) LocationInfo(ctx context.Context, impu, originating, authType string) (*ServerAssignmentStatus, error) {
	q := url.Values{}
	if originating != "" {
		q.Set("originating", originating)
	}
	if authType != "" {
		q.Set("auth-type", authType)
	}
	endpoint := fmt.Sprintf("/impu/%s/location?%s", url.PathEscape(impu), q.Encode())
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var out ServerAssignmentStatus
	if err := c.handleResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRegData fetches GET /impu/{impu}/reg-data, returning the raw
// ClearwaterRegData XML body (§4.6).
func (c *Client) GetRegData(ctx context.Context, impu string) (string, error) {
	endpoint := fmt.Sprintf("/impu/%s/reg-data", url.PathEscape(impu))
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	return readXMLBody(resp)
}

// PutRegData issues PUT /impu/{impu}/reg-data (§4.3.4) and returns the raw
// reply XML.
func (c *Client) PutRegData(ctx context.Context, impu string, body RegDataPutRequest) (string, error) {
	endpoint := fmt.Sprintf("/impu/%s/reg-data", url.PathEscape(impu))
	resp, err := c.do(ctx, http.MethodPut, endpoint, body)
	if err != nil {
		return "", err
	}
	return readXMLBody(resp)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("cxgateway: marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("cxgateway: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cxgateway: do request: %w", err)
	}
	return resp, nil
}

func (c *Client) handleResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cxgateway: read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("cxgateway: request failed (status %d): %s", resp.StatusCode, string(body))
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("cxgateway: unmarshal response: %w", err)
		}
	}

	return nil
}

func readXMLBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cxgateway: read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("cxgateway: request failed (status %d): %s", resp.StatusCode, string(body))
	}

	return string(body), nil
}
