package validator

import "testing"

func TestValidateAccountID(t *testing.T) {
	for _, id := range []string{"A1", "acc-001", "savings_2"} {
		if err := ValidateAccountID(id); err != nil {
			t.Fatalf("expected %q to be valid: %v", id, err)
		}
	}
	for _, id := range []string{"", "has space", "slash/id", "0123456789012345678901234567890123"} {
		if err := ValidateAccountID(id); err != ErrInvalidAccountID {
			t.Fatalf("expected %q to be rejected", id)
		}
	}
}

func TestValidateOwnerName(t *testing.T) {
	if err := ValidateOwnerName("Alice Smith"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateOwnerName("   "); err != ErrInvalidOwnerName {
		t.Fatalf("expected blank name to be rejected")
	}
}

func TestValidatePIN(t *testing.T) {
	for _, pin := range []string{"1234", "12345", "123456"} {
		if err := ValidatePIN(pin); err != nil {
			t.Fatalf("expected %q to be valid", pin)
		}
	}
	for _, pin := range []string{"", "123", "1234567", "12a4", " 1234"} {
		if err := ValidatePIN(pin); err != ErrInvalidPIN {
			t.Fatalf("expected %q to be rejected", pin)
		}
	}
}

func TestValidateCurrency(t *testing.T) {
	if err := ValidateCurrency("EUR"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, code := range []string{"eur", "EU", "EURO", ""} {
		if err := ValidateCurrency(code); err != ErrInvalidCurrency {
			t.Fatalf("expected %q to be rejected", code)
		}
	}
}
