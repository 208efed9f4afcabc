// Package idtoolkit is a minimal REST client for the identity platform's
// account endpoints. It covers only what the verification core needs.
package idtoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

const (
	productionBaseURL = "https://identitytoolkit.googleapis.com/v1"

	scopeCloudPlatform   = "https://www.googleapis.com/auth/cloud-platform"
	scopeIdentityToolkit = "https://www.googleapis.com/auth/identitytoolkit"
)

// ErrAccountNotFound is returned when no account exists for the requested
// local ID.
var ErrAccountNotFound = errors.New("account not found")

// AccountInfo is the subset of the backend's account record the verification
// core reads.
type AccountInfo struct {
	LocalID  string `json:"localId"`
	Disabled bool   `json:"disabled"`

	// ValidSince is a seconds-since-epoch decimal string; empty when the
	// account has never had its tokens revoked.
	ValidSince string `json:"validSince"`
}

// Client calls the platform's account endpoints for one project.
type Client struct {
	hc      *http.Client
	baseURL string
}

// NewClient builds a client for projectID. With an empty emulatorHost it
// authorizes requests with the platform's credential discovery (configured
// through opts); with an emulator host it talks plain HTTP without
// credentials, the way the emulator expects.
func NewClient(ctx context.Context, projectID, emulatorHost string, opts ...option.ClientOption) (*Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("project ID is required")
	}

	if emulatorHost != "" {
		return &Client{
			hc:      &http.Client{},
			baseURL: fmt.Sprintf("http://%s/identitytoolkit.googleapis.com/v1/projects/%s", emulatorHost, projectID),
		}, nil
	}

	allOpts := append([]option.ClientOption{
		option.WithScopes(scopeCloudPlatform, scopeIdentityToolkit),
	}, opts...)
	hc, _, err := htransport.NewClient(ctx, allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorized transport: %w", err)
	}

	return &Client{
		hc:      hc,
		baseURL: fmt.Sprintf("%s/projects/%s", productionBaseURL, projectID),
	}, nil
}

// LookupAccount fetches the account record for uid. Returns
// ErrAccountNotFound when the backend reports no such user.
func (c *Client) LookupAccount(ctx context.Context, uid string) (*AccountInfo, error) {
	body, err := json.Marshal(map[string]any{"localId": []string{uid}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/accounts:lookup", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call accounts:lookup: %w", err)
	}
	defer res.Body.Close()

	if err := googleapi.CheckResponse(res); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && strings.Contains(gerr.Message, "USER_NOT_FOUND") {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("accounts:lookup failed: %w", err)
	}

	var parsed struct {
		Users []AccountInfo `json:"users"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}

	// The backend answers an unknown local ID with an empty user list
	// rather than an error status.
	if len(parsed.Users) == 0 {
		return nil, ErrAccountNotFound
	}

	return &parsed.Users[0], nil
}
