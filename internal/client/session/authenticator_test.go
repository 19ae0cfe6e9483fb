package session

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/mazadlive/internal/client/api"
	"github.com/iudanet/mazadlive/internal/models"
	pkgapi "github.com/iudanet/mazadlive/pkg/api"
)

func TestAuthenticator_VerifyOTP(t *testing.T) {
	client := &api.ClientAPIMock{
		VerifyOTPFunc: func(ctx context.Context, req pkgapi.VerifyOTPRequest) (*pkgapi.SignInResponse, error) {
			return &pkgapi.SignInResponse{
				User:    models.User{ID: "u1", FirstName: "Amine"},
				Session: models.Tokens{AccessToken: "a", RefreshToken: "r"},
			}, nil
		},
	}
	persister := &fakePersister{}
	store := NewStore(persister, nil)
	auth := NewAuthenticator(client, store, nil)

	state, err := auth.VerifyOTP(context.Background(), "+213 555 000 111", "123456")
	require.NoError(t, err)
	assert.True(t, state.IsLogged)
	assert.Equal(t, "u1", state.UserID())
	assert.Equal(t, "+213555000111", state.User.Phone)

	calls := client.VerifyOTPCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "+213555000111", calls[0].Req.Phone)
	assert.Equal(t, "123456", calls[0].Req.OTP)
	assert.NotNil(t, persister.record)
}

func TestAuthenticator_VerifyOTP_Validation(t *testing.T) {
	client := &api.ClientAPIMock{}
	auth := NewAuthenticator(client, NewStore(&fakePersister{}, nil), nil)

	_, err := auth.VerifyOTP(context.Background(), "", "123456")
	assert.ErrorContains(t, err, "invalid phone")

	_, err = auth.VerifyOTP(context.Background(), "+213555000111", "12")
	assert.ErrorContains(t, err, "invalid otp")

	assert.Empty(t, client.VerifyOTPCalls())
}

func TestAuthenticator_VerifyOTP_BackendError(t *testing.T) {
	client := &api.ClientAPIMock{
		VerifyOTPFunc: func(ctx context.Context, req pkgapi.VerifyOTPRequest) (*pkgapi.SignInResponse, error) {
			return nil, &api.StatusError{StatusCode: http.StatusUnauthorized, Message: "bad code"}
		},
	}
	store := NewStore(&fakePersister{}, nil)
	auth := NewAuthenticator(client, store, nil)

	_, err := auth.VerifyOTP(context.Background(), "+213555000111", "123456")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.False(t, store.GetState().IsLogged)
}

func TestAuthenticator_RefreshTokens(t *testing.T) {
	client := &api.ClientAPIMock{
		RefreshFunc: func(ctx context.Context, refreshToken string) (*models.Tokens, error) {
			assert.Equal(t, "r1", refreshToken)
			return &models.Tokens{AccessToken: "a2", RefreshToken: "r2"}, nil
		},
	}
	store := NewStore(&fakePersister{}, nil)
	auth := NewAuthenticator(client, store, nil)
	ctx := context.Background()

	// Без сессии
	assert.ErrorIs(t, auth.RefreshTokens(ctx), api.ErrAuthRequired)

	require.NoError(t, store.Login(ctx, models.User{ID: "u1"}, models.Tokens{AccessToken: "a1", RefreshToken: "r1"}))
	require.NoError(t, auth.RefreshTokens(ctx))

	assert.Equal(t, "a2", store.GetState().AccessToken())
}

func TestAuthenticator_RefreshRejectedLogsOut(t *testing.T) {
	client := &api.ClientAPIMock{
		RefreshFunc: func(ctx context.Context, refreshToken string) (*models.Tokens, error) {
			return nil, &api.StatusError{StatusCode: http.StatusUnauthorized, Message: "revoked"}
		},
	}
	store := NewStore(&fakePersister{}, nil)
	auth := NewAuthenticator(client, store, nil)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, models.User{ID: "u1"}, models.Tokens{AccessToken: "a1", RefreshToken: "r1"}))

	err := auth.RefreshTokens(ctx)
	require.Error(t, err)
	assert.False(t, store.GetState().IsLogged)
}
