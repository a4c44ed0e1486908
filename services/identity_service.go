package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dressmake/tailorshop-api/config"
)

// UserInfo represents the identity returned from the IdP's /userinfo endpoint
type UserInfo struct {
	Sub   string `json:"sub"` // IdP user ID
	Email string `json:"email"`
	Name  string `json:"name"`
}

// IdentityService handles interactions with the IdP's API. Staff records are
// bootstrapped from the identity it returns; this API never issues tokens
// itself.
type IdentityService struct {
	domain     string
	httpClient *http.Client
}

// NewIdentityService creates a new identity service instance
func NewIdentityService(cfg *config.Config) *IdentityService {
	return &IdentityService{
		domain: cfg.Auth0Domain,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetUserInfo fetches the caller's identity from the IdP's /userinfo
// endpoint. accessToken is the JWT access token from the Authorization
// header.
func (s *IdentityService) GetUserInfo(accessToken string) (*UserInfo, error) {
	// If domain already includes a protocol (for testing), use it as-is
	var url string
	if strings.HasPrefix(s.domain, "http://") || strings.HasPrefix(s.domain, "https://") {
		url = fmt.Sprintf("%s/userinfo", s.domain)
	} else {
		url = fmt.Sprintf("https://%s/userinfo", s.domain)
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	return &userInfo, nil
}
