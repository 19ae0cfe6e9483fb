package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runLogin(ctx context.Context, phone, otp string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	var err error

	// Запрашиваем телефон
	if phone == "" {
		phone, err = c.io.ReadInput("Phone: ")
		if err != nil {
			return fmt.Errorf("failed to read phone: %w", err)
		}
	}

	// Запрашиваем OTP без эха
	if otp == "" {
		otp, err = c.io.ReadSecret("OTP code: ")
		if err != nil {
			return fmt.Errorf("failed to read otp: %w", err)
		}
	}

	c.io.Println("Authenticating...")

	state, err := c.auth.VerifyOTP(ctx, phone, otp)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("User: %s\n", state.User.DisplayName())
	c.io.Println("Your session has been saved.")

	return nil
}
