package phone

import "testing"

func TestNormalizeE164_USNumber(t *testing.T) {
	got := NormalizeE164("(212) 555-0198")
	if got != "+12125550198" {
		t.Fatalf("expected +12125550198, got %q", got)
	}
}

func TestNormalizeE164_AlreadyE164(t *testing.T) {
	got := NormalizeE164("+12125550198")
	if got != "+12125550198" {
		t.Fatalf("expected +12125550198, got %q", got)
	}
}

func TestNormalizeE164_GarbagePassesThrough(t *testing.T) {
	got := NormalizeE164("  call us  ")
	if got != "call us" {
		t.Fatalf("expected trimmed input back, got %q", got)
	}
}

func TestNormalizeE164_Empty(t *testing.T) {
	if got := NormalizeE164("   "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
