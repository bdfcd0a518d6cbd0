package auth

import (
	"fmt"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
)

// SSOIdentity is the subset of an identity-provider user the service needs.
type SSOIdentity struct {
	Email   string
	Name    string
	Avatar  string
	IsAdmin bool
}

// SSOVerifier validates a token minted by an external identity provider.
type SSOVerifier interface {
	Verify(token string) (*SSOIdentity, error)
}

type CasdoorVerifier struct {
	client *casdoorsdk.Client
}

func NewCasdoorVerifier(endpoint, clientID, clientSecret, certificate, organization, application string) *CasdoorVerifier {
	return &CasdoorVerifier{
		client: casdoorsdk.NewClient(endpoint, clientID, clientSecret, certificate, organization, application),
	}
}

func (v *CasdoorVerifier) Verify(token string) (*SSOIdentity, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to verify SSO token: %w", err)
	}

	name := claims.User.DisplayName
	if name == "" {
		name = claims.User.Name
	}
	return &SSOIdentity{
		Email:   claims.User.Email,
		Name:    name,
		Avatar:  claims.User.Avatar,
		IsAdmin: claims.User.IsAdmin,
	}, nil
}
