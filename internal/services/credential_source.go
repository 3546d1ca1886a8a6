package services

import (
	"context"
	"fmt"

	"github.com/mvaldivia/soltrack/internal/config"
	"github.com/mvaldivia/soltrack/internal/crypto"
	"github.com/mvaldivia/soltrack/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
)

// gmailCredentialSource turns an owner's encrypted refresh token into an
// OAuth token source that mints access tokens on demand.
type gmailCredentialSource struct {
	oauthConfig *oauth2.Config
	cipher      *crypto.TokenCipher
}

func NewGmailCredentialSource(cfg config.GmailConfig, cipher *crypto.TokenCipher) CredentialSource {
	return &gmailCredentialSource{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmailapi.GmailReadonlyScope},
		},
		cipher: cipher,
	}
}

func (c *gmailCredentialSource) TokenSource(ctx context.Context, user *models.User) (oauth2.TokenSource, error) {
	if !user.HasStoredCredentials() {
		return nil, fmt.Errorf("user %s has no stored credentials", user.ID)
	}

	refreshToken, err := c.cipher.Decrypt(user.EncryptedRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("decrypt refresh token: %w", err)
	}

	token := &oauth2.Token{RefreshToken: refreshToken}
	if user.EncryptedAccessToken != "" {
		if accessToken, err := c.cipher.Decrypt(user.EncryptedAccessToken); err == nil {
			token.AccessToken = accessToken
			if user.TokenExpiry != nil {
				token.Expiry = *user.TokenExpiry
			}
		}
	}

	return c.oauthConfig.TokenSource(ctx, token), nil
}
