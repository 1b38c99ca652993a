package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestIsTypeFollowsWrapping(t *testing.T) {
	base := Network("cart add failed", fmt.Errorf("connection refused"))
	wrapped := fmt.Errorf("submit: %w", base)

	if !IsType(wrapped, TypeNetwork) {
		t.Fatal("expected wrapped error to keep its type")
	}
	if !Retryable(wrapped) {
		t.Error("network errors must be retryable")
	}
	if Retryable(Input("bad")) {
		t.Error("input errors must not be retryable")
	}
	if TypeOf(fmt.Errorf("plain")) != TypeInternal {
		t.Error("foreign errors should classify as internal")
	}
}

func TestErrorString(t *testing.T) {
	err := Config("price table", fmt.Errorf("gap at 901"))
	if err.Error() != "[CONFIG_ERROR] price table: gap at 901" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestProblems(t *testing.T) {
	p := NewProblems(TypeInput, "configuration rejected")
	if p.Err() != nil {
		t.Fatal("empty problems should not produce an error")
	}

	p.Add("mount_type", "unknown mount %q", "ceiling")
	p.Add("fabric_color", "not part of %s", "duo-blockout")
	p.Add("mount_type", "ignored second problem")

	err := p.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsType(err, TypeInput) {
		t.Errorf("expected input error, got %v", err)
	}
	msg := err.Error()
	if strings.Index(msg, "fabric_color") > strings.Index(msg, "mount_type") {
		t.Errorf("fields should be listed in sorted order: %s", msg)
	}
	if strings.Contains(msg, "ignored") {
		t.Errorf("first problem per field should win: %s", msg)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}
