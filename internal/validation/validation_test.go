package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{name: "international", phone: "+213555000111"},
		{name: "local", phone: "0555000111"},
		{name: "with spaces", phone: "+213 555 00 01 11"},
		{name: "with dashes and parens", phone: "(0555)-000-111"},
		{name: "empty", phone: "", wantErr: true},
		{name: "blank", phone: "   ", wantErr: true},
		{name: "too short", phone: "12345", wantErr: true},
		{name: "letters", phone: "+213abc00011", wantErr: true},
		{name: "too long", phone: "+1234567890123456", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhone(tt.phone)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+213555000111", NormalizePhone(" +213 555-000 111 "))
	assert.Equal(t, "0555000111", NormalizePhone("(0555)000111"))
}

func TestValidateOTP(t *testing.T) {
	tests := []struct {
		name    string
		otp     string
		wantErr bool
	}{
		{name: "six digits", otp: "123456"},
		{name: "four digits", otp: "1234"},
		{name: "padded", otp: " 123456 "},
		{name: "empty", otp: "", wantErr: true},
		{name: "too short", otp: "123", wantErr: true},
		{name: "letters", otp: "12ab56", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOTP(tt.otp)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("userId", "65f1c0a2b3d4e5f607182930"))
	assert.NoError(t, ValidateID("userId", "550e8400-e29b-41d4-a716-446655440000"))

	err := ValidateID("userId", "")
	assert.EqualError(t, err, "userId is required")

	err = ValidateID("notificationId", "../etc/passwd")
	assert.EqualError(t, err, "notificationId has invalid format")
}
