package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// PhonePattern определяет допустимый формат телефона:
// необязательный "+", затем 8-15 цифр
var PhonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// OTPPattern - одноразовый код из 4-8 цифр
var OTPPattern = regexp.MustCompile(`^[0-9]{4,8}$`)

// IDPattern - идентификаторы backend (Mongo ObjectID, uuid и т.п.)
var IDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// NormalizePhone убирает пробелы, дефисы и скобки
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}

// ValidatePhone проверяет номер телефона после нормализации
func ValidatePhone(phone string) error {
	phone = NormalizePhone(phone)
	if phone == "" {
		return fmt.Errorf("phone cannot be empty")
	}

	if !PhonePattern.MatchString(phone) {
		return fmt.Errorf("phone must contain 8-15 digits with optional leading +")
	}

	return nil
}

// ValidateOTP проверяет одноразовый код
func ValidateOTP(otp string) error {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return fmt.Errorf("otp cannot be empty")
	}

	if !OTPPattern.MatchString(otp) {
		return fmt.Errorf("otp must be 4-8 digits")
	}

	return nil
}

// ValidateID проверяет идентификатор (userId, notificationId)
func ValidateID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s is required", field)
	}

	if !IDPattern.MatchString(id) {
		return fmt.Errorf("%s has invalid format", field)
	}

	return nil
}
