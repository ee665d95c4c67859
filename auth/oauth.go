package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Exchanger completes the OAuth authorization-code flow against the
// hosted auth provider: trade the short-lived code from the callback
// route for an access token, then resolve the token to an identity
// through the provider's userinfo endpoint. The code-for-token
// exchange happens server to server with the client secret, the token
// never touches the browser.
type Exchanger struct {
	config      *oauth2.Config
	userInfoUrl string
}

// NewExchangerFromEnv builds an Exchanger from the AUTH_* environment
// values configured for the hosted provider.
func NewExchangerFromEnv() *Exchanger {
	return &Exchanger{
		config: &oauth2.Config{
			ClientID:     os.Getenv("AUTH_CLIENT_ID"),
			ClientSecret: os.Getenv("AUTH_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("AUTH_CALLBACK_URL"),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  os.Getenv("AUTH_AUTHORIZE_URL"),
				TokenURL: os.Getenv("AUTH_TOKEN_URL"),
			},
		},
		userInfoUrl: os.Getenv("AUTH_USERINFO_URL"),
	}
}

// AuthURL returns the provider URL to redirect the user to for
// authorization. state must be random and verified on callback.
func (e *Exchanger) AuthURL(state string) string {
	return e.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the signed-in identity.
func (e *Exchanger) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := e.config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "exchange authorization code")
	}

	client := e.config.Client(ctx, token)
	resp, err := client.Get(e.userInfoUrl)
	if err != nil {
		return nil, errors.Wrap(err, "fetch userinfo")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info struct {
		Sub               string `json:"sub"`
		Email             string `json:"email"`
		PreferredUsername string `json:"preferred_username"`
		Name              string `json:"name"`
		Picture           string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "decode userinfo")
	}
	if info.Sub == "" {
		return nil, errors.New("userinfo returned no subject")
	}

	return &Identity{
		Id:        info.Sub,
		Email:     info.Email,
		Username:  info.PreferredUsername,
		FullName:  info.Name,
		AvatarUrl: info.Picture,
	}, nil
}
