package env

import (
	"testing"
	"time"
)

func TestString_Default(t *testing.T) {
	got := String("MLFORGE_ENV_STRING_DOES_NOT_EXIST", "fallback")
	if got != "fallback" {
		t.Fatalf("String()=%q, want fallback", got)
	}
}

func TestString_Override(t *testing.T) {
	t.Setenv("MLFORGE_ENV_STRING_KEY", "value")
	got := String("MLFORGE_ENV_STRING_KEY", "fallback")
	if got != "value" {
		t.Fatalf("String()=%q, want value", got)
	}
}

func TestDuration_Default(t *testing.T) {
	got, err := Duration("MLFORGE_ENV_DURATION_DOES_NOT_EXIST", 5*time.Second)
	if err != nil {
		t.Fatalf("Duration() err=%v", err)
	}
	if got != 5*time.Second {
		t.Fatalf("Duration()=%v, want 5s", got)
	}
}

func TestDuration_Invalid(t *testing.T) {
	t.Setenv("MLFORGE_ENV_DURATION_KEY", "not-a-duration")
	_, err := Duration("MLFORGE_ENV_DURATION_KEY", 5*time.Second)
	if err == nil {
		t.Fatalf("Duration() expected error")
	}
}

func TestBool_Override(t *testing.T) {
	t.Setenv("MLFORGE_ENV_BOOL_KEY", "true")
	got, err := Bool("MLFORGE_ENV_BOOL_KEY", false)
	if err != nil {
		t.Fatalf("Bool() err=%v", err)
	}
	if !got {
		t.Fatalf("Bool()=false, want true")
	}
}

func TestBool_Invalid(t *testing.T) {
	t.Setenv("MLFORGE_ENV_BOOL_KEY_INVALID", "nope")
	_, err := Bool("MLFORGE_ENV_BOOL_KEY_INVALID", false)
	if err == nil {
		t.Fatalf("Bool() expected error")
	}
}
