package readers

import "testing"

func TestRegexSecurityManagerEmptyAllowsAll(t *testing.T) {
	sm, err := NewRegexSecurityManager(nil, nil)
	if err != nil {
		t.Fatalf("NewRegexSecurityManager: %v", err)
	}

	if err := sm.CheckImportModule("a.pkl", "https://anywhere.example/x.pkl"); err != nil {
		t.Errorf("expected no denial with empty allow-list, got %v", err)
	}
}

func TestRegexSecurityManagerDeniesNonMatching(t *testing.T) {
	sm, err := NewRegexSecurityManager([]string{`^https://pkg\.pkl-lang\.org/`}, nil)
	if err != nil {
		t.Fatalf("NewRegexSecurityManager: %v", err)
	}

	if err := sm.CheckImportModule("a.pkl", "https://pkg.pkl-lang.org/foo.pkl"); err != nil {
		t.Errorf("expected allowed import, got %v", err)
	}

	if err := sm.CheckImportModule("a.pkl", "https://evil.example/foo.pkl"); err == nil {
		t.Errorf("expected denial for non-matching URI")
	}
}

func TestNewRegexSecurityManagerRejectsBadPattern(t *testing.T) {
	if _, err := NewRegexSecurityManager([]string{"("}, nil); err == nil {
		t.Fatalf("expected error for invalid regex")
	}
}
