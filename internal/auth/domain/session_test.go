package domain

import "testing"

func TestNewUserSession(t *testing.T) {
	s, err := NewUserSession("s1", "u1", "t1", "curl/8.0", "203.0.113.9")
	if err != nil {
		t.Fatalf("NewUserSession: %v", err)
	}
	if !s.IsActive {
		t.Error("new session should be active")
	}
	if s.LastSeenAt.IsZero() {
		t.Error("LastSeenAt should be set")
	}
}

func TestNewUserSession_Validation(t *testing.T) {
	if _, err := NewUserSession("", "u1", "t1", "", ""); err == nil {
		t.Error("missing id should fail")
	}
	if _, err := NewUserSession("s1", "", "t1", "", ""); err == nil {
		t.Error("missing userID should fail")
	}
	if _, err := NewUserSession("s1", "u1", " ", "", ""); err == nil {
		t.Error("missing refreshTokenID should fail")
	}
}

func TestRotate(t *testing.T) {
	s, _ := NewUserSession("s1", "u1", "t1", "", "")
	before := s.LastSeenAt

	if err := s.Rotate("t2"); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if s.RefreshTokenID != "t2" {
		t.Errorf("RefreshTokenID = %q, want t2", s.RefreshTokenID)
	}
	if s.LastSeenAt.Before(before) {
		t.Error("Rotate should touch LastSeenAt")
	}

	if err := s.Rotate("  "); err == nil {
		t.Error("blank successor id should fail")
	}
}

func TestEnd_Idempotent(t *testing.T) {
	s, _ := NewUserSession("s1", "u1", "t1", "", "")

	s.End()
	if s.IsActive || s.EndedAt == nil {
		t.Fatal("End should deactivate and set EndedAt")
	}
	first := *s.EndedAt

	s.End()
	if !s.EndedAt.Equal(first) {
		t.Error("second End should not change EndedAt")
	}
}
