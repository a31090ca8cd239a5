package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewErrorDropsEmptyFieldSequences(t *testing.T) {
	e := NewError(422, "validation failed", map[string][]string{
		"email":    {"is required", " "},
		"password": {},
		"":         {"orphan"},
	})
	if len(e.Errors) != 1 {
		t.Fatalf("expected only email to remain, got %v", e.Errors)
	}
	if got := e.FieldErrors("email"); len(got) != 1 || got[0] != "is required" {
		t.Fatalf("email errors = %v", got)
	}
	if !strings.Contains(e.Error(), "email: is required") {
		t.Fatalf("Error() = %q", e.Error())
	}
}

func TestNewErrorDefaultsMessage(t *testing.T) {
	e := NewError(404, "", nil)
	if e.Message != "Not Found" {
		t.Fatalf("Message = %q", e.Message)
	}
	if e.Errors != nil {
		t.Fatalf("expected nil field errors")
	}
}

func TestErrorDecodesFromJSON(t *testing.T) {
	var e Error
	raw := `{"message":"bad","status":400,"errors":{"start":["must be before end"]}}`
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if e.Status != 400 || e.FieldErrors("start")[0] != "must be before end" {
		t.Fatalf("decoded %+v", e)
	}
}

func TestResultIsSuccessXorFailure(t *testing.T) {
	ok := Success(Response[string]{Data: "x", Status: 200})
	if !ok.OK() || ok.Err() != nil {
		t.Fatalf("success result reports failure")
	}
	if v, err := ok.Unwrap(); err != nil || v != "x" {
		t.Fatalf("Unwrap = %q, %v", v, err)
	}

	bad := Failure[string](NewError(500, "boom", nil))
	if bad.OK() {
		t.Fatalf("failure result reports success")
	}
	if _, has := bad.Response(); has {
		t.Fatalf("failure result exposes a response")
	}
	if _, err := bad.Unwrap(); err == nil || err.Error() != "api error 500: boom" {
		t.Fatalf("Unwrap err = %v", err)
	}

	var zero Result[int]
	if zero.OK() || zero.Err() == nil {
		t.Fatalf("zero result must be a failure")
	}
}

func TestAsErrorFindsWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("call: %w", NewError(401, "unauthorized", nil))
	apiErr, ok := AsError(wrapped)
	if !ok || apiErr.Status != 401 {
		t.Fatalf("AsError = %v, %v", apiErr, ok)
	}
	if _, ok := AsError(errors.New("plain")); ok {
		t.Fatalf("plain error matched")
	}
}
