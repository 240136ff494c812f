package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type IdentityLogHook struct{}

func (h *IdentityLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Identity: " + entry.Message
	return nil
}

func (h *IdentityLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Principal is the authenticated caller as attested by the identity service.
// The core trusts it without re-verifying credentials.
type Principal struct {
	ID             string `json:"id"`
	MembershipType string `json:"membership_type"`
	EmailVerified  bool   `json:"email_verified"`
	IsAdmin        bool   `json:"is_admin"`
}

type IdentityAdapter struct {
	client       http.Client
	log          *logrus.Entry
	identityHost string
	identityPort string
}

func NewIdentityAdapter(log *logrus.Entry, identityHost, identityPort string) *IdentityAdapter {
	c := http.Client{
		Timeout: time.Second * 10,
	}

	return &IdentityAdapter{
		client:       c,
		log:          log,
		identityHost: identityHost,
		identityPort: identityPort,
	}
}

// Verify resolves a bearer token into a principal. A non-200 from the
// identity service is returned as its status code with a nil principal.
func (a *IdentityAdapter) Verify(token string) (*Principal, int, error) {
	url := fmt.Sprintf("http://%s%s%s", a.identityHost, a.identityPort, "/auth/verify")
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		a.log.Errorf("verify: failed to create verify request - %v", err)
		return nil, 0, fmt.Errorf("failed verify request")
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Errorf("verify: failed verify request - %v", err)
		return nil, 0, fmt.Errorf("failed verify request")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var principal Principal
		if err := json.NewDecoder(resp.Body).Decode(&principal); err != nil {
			a.log.Errorf("verify: failed to decode response body - %v", err)
			return nil, 500, fmt.Errorf("failed to decode response body")
		}
		return &principal, 200, nil
	case http.StatusUnauthorized:
		return nil, 401, nil
	default:
		a.log.Errorf("verify: unexpected status code - %d", resp.StatusCode)
		return nil, resp.StatusCode, nil
	}
}
