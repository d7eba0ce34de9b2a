package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ExternalIdentity is the verified subject returned by the identity provider.
type ExternalIdentity struct {
	Subject     string `json:"subject"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Email       string `json:"email"`
	Premium     bool   `json:"premium"`
}

// Verifier exchanges an opaque identity-provider credential for a verified
// external identity. Implementations hold no internal state.
type Verifier interface {
	Verify(ctx context.Context, providerToken string) (*ExternalIdentity, error)
}

// HTTPVerifier verifies credentials against an identity provider over HTTP.
type HTTPVerifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPVerifier builds a verifier for the given provider endpoint.
func NewHTTPVerifier(endpoint string) *HTTPVerifier {
	return &HTTPVerifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify presents the credential as a bearer token and decodes the subject.
func (v *HTTPVerifier) Verify(ctx context.Context, providerToken string) (*ExternalIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+providerToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify credential: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrCredentialRejected
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var identity ExternalIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	if identity.Subject == "" {
		return nil, fmt.Errorf("identity provider returned empty subject")
	}

	return &identity, nil
}
