package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/mazadlive/internal/client/iocli"
)

// TestRunLogin_ReadErrors проверяет ошибки чтения ввода
func TestRunLogin_ReadErrors(t *testing.T) {
	errInput := errors.New("stdin closed")

	tests := []struct {
		name          string
		phone         string
		readInputErr  error
		readSecretErr error
		wantErr       string
		wantPrompts   int
	}{
		{name: "phone prompt fails", readInputErr: errInput, wantErr: "failed to read phone", wantPrompts: 1},
		{name: "otp prompt fails", readSecretErr: errInput, wantErr: "failed to read otp", wantPrompts: 1},
		{name: "phone from flag", phone: "+213555000111", readSecretErr: errInput, wantErr: "failed to read otp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &iocli.IOMock{
				PrintlnFunc: func(a ...any) {},
				PrintfFunc:  func(format string, a ...any) {},
				ReadInputFunc: func(prompt string) (string, error) {
					return "+213555000111", tt.readInputErr
				},
				ReadSecretFunc: func(prompt string) (string, error) {
					return "", tt.readSecretErr
				},
			}
			c := &Cli{io: mock}

			err := c.runLogin(context.Background(), tt.phone, "")

			require.Error(t, err)
			assert.ErrorIs(t, err, errInput)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Len(t, mock.ReadInputCalls(), tt.wantPrompts)
			if tt.readInputErr == nil {
				require.Len(t, mock.ReadSecretCalls(), 1)
				assert.Equal(t, "OTP code: ", mock.ReadSecretCalls()[0].Prompt)
			}
		})
	}
}
