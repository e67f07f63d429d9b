package services

import (
	"errors"
	"strings"
	"testing"

	"plates-console/internal/repository"
)

func TestValidatorMessages(t *testing.T) {
	v := NewValidator()

	err := v.Struct(repository.LoginRequest{Email: "not-an-email"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	for _, want := range []string{"Email must be a valid email", "Password is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("%q does not mention %q", err.Error(), want)
		}
	}

	if err := v.Struct(repository.LoginRequest{Email: "a@b.co", Password: "secret"}); err != nil {
		t.Errorf("valid login rejected: %v", err)
	}
}

func TestValidatorPasswordChange(t *testing.T) {
	v := NewValidator()
	if err := v.Struct(&ChangePasswordRequest{OldPassword: "samesame1", NewPassword: "samesame1"}); !errors.Is(err, ErrValidation) {
		t.Errorf("reused password err = %v, want ErrValidation", err)
	}
	if err := v.Struct(&ChangePasswordRequest{OldPassword: "oldpass12", NewPassword: "newpass12"}); err != nil {
		t.Errorf("valid change rejected: %v", err)
	}
}

func TestValidatorMealType(t *testing.T) {
	v := NewValidator()
	form := &SetCapacityForm{LocationID: 1, Date: "2026-01-01", MealType: "brunch", Capacity: 5}
	err := v.Struct(form)
	if err == nil || !strings.Contains(err.Error(), "MealType must be one of") {
		t.Errorf("err = %v, want a meal type message", err)
	}
}
