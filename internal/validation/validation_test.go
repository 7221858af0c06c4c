package validation

import (
	"errors"
	"testing"
)

type signUp struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Rating   int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Currency string `json:"currency" validate:"omitempty,iso4217"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(signUp{Email: "nope", Password: "short", Rating: 9, Currency: "XXXX"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	fields := verr.FieldErrors()
	for _, key := range []string{"email", "password", "rating", "currency"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing field error for %q in %v", key, fields)
		}
	}
	if fields["password"] != "password must be at least 8 characters" {
		t.Errorf("unexpected password message %q", fields["password"])
	}
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(signUp{Email: "a@b.co", Password: "longenough", Currency: "INR"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
