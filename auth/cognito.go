package auth

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/pkg/errors"
)

// CognitoVerifier is a thread safe client that performs user
// authorization based on an access token issued by Cognito.
type CognitoVerifier struct {
	client *cognitoidentityprovider.Client
}

// NewCognitoVerifier creates a verifier with aws config located in
// path ~/.aws/config, and returns error on error.
func NewCognitoVerifier() (*CognitoVerifier, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, err
	}
	return &CognitoVerifier{client: cognitoidentityprovider.NewFromConfig(cfg)}, nil
}

// Verify resolves an access token to its identity. It returns error
// on token not provided or token is invalid (wrong token or expired).
func (v *CognitoVerifier) Verify(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, errors.New("empty access token")
	}

	user, err := v.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{AccessToken: &accessToken})
	if err != nil {
		return nil, errors.Wrap(err, "verify access token")
	}

	identity := Identity{Id: *user.Username}
	for _, attr := range user.UserAttributes {
		if attr.Name == nil || attr.Value == nil {
			continue
		}
		switch *attr.Name {
		case "email":
			identity.Email = *attr.Value
		case "preferred_username":
			identity.Username = *attr.Value
		case "name":
			identity.FullName = *attr.Value
		case "picture":
			identity.AvatarUrl = *attr.Value
		}
	}
	return &identity, nil
}
