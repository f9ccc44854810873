package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/gymsuite/gymsuite-backend/config"
)

var ErrGoogleIdentity = errors.New("google identity could not be verified")

// InitializeFirebase initializes the Firebase Admin SDK and returns an Auth client
func InitializeFirebase(ctx context.Context, cfg *config.FirebaseConfig) (*fbauth.Client, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return authClient, nil
}

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// GoogleVerifier resolves a Google sign-in ID token to the email it was
// issued for.
type GoogleVerifier struct {
	client idTokenVerifier
}

func NewGoogleVerifier(client *fbauth.Client) *GoogleVerifier {
	return &GoogleVerifier{client: client}
}

func (v *GoogleVerifier) VerifiedEmail(ctx context.Context, idToken string) (string, error) {
	if strings.TrimSpace(idToken) == "" {
		return "", ErrGoogleIdentity
	}

	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", ErrGoogleIdentity
	}

	email, _ := tok.Claims["email"].(string)
	if email == "" {
		return "", ErrGoogleIdentity
	}
	return email, nil
}
