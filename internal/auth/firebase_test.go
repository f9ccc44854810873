package auth

import (
	"context"
	"errors"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIDTokens struct {
	token *fbauth.Token
	err   error
}

func (s stubIDTokens) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return s.token, s.err
}

func TestGoogleVerifier_VerifiedEmail(t *testing.T) {
	ctx := context.Background()

	v := &GoogleVerifier{client: stubIDTokens{token: &fbauth.Token{
		UID:    "firebase-uid",
		Claims: map[string]interface{}{"email": "g@x.com"},
	}}}
	email, err := v.VerifiedEmail(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, "g@x.com", email)

	_, err = v.VerifiedEmail(ctx, "  ")
	assert.ErrorIs(t, err, ErrGoogleIdentity)

	noEmail := &GoogleVerifier{client: stubIDTokens{token: &fbauth.Token{Claims: map[string]interface{}{}}}}
	_, err = noEmail.VerifiedEmail(ctx, "id-token")
	assert.ErrorIs(t, err, ErrGoogleIdentity)

	failing := &GoogleVerifier{client: stubIDTokens{err: errors.New("token expired")}}
	_, err = failing.VerifiedEmail(ctx, "id-token")
	assert.ErrorIs(t, err, ErrGoogleIdentity)
}
