package rategate

import "testing"

func TestDetectSuspiciousInput(t *testing.T) {
	clean := map[string]string{
		"first_name": "María",
		"last_name":  "Ochoa",
		"email":      "maria@example.com",
	}
	if v := DetectSuspiciousInput(clean); v.Suspicious {
		t.Fatalf("clean input flagged: %v", v.Reasons)
	}

	injected := map[string]string{
		"first_name": "<script>alert(1)</script>",
		"comment":    "1 UNION SELECT password FROM users",
	}
	v := DetectSuspiciousInput(injected)
	if !v.Suspicious {
		t.Fatal("injection markers not flagged")
	}
	if len(v.Reasons) < 2 {
		t.Fatalf("expected a reason per offending field, got %v", v.Reasons)
	}

	disposable := map[string]string{
		"email": "ghost@mailinator.com",
	}
	if v := DetectSuspiciousInput(disposable); !v.Suspicious {
		t.Fatal("disposable email domain not flagged")
	}

	// Only email-like fields are checked for disposable domains.
	note := map[string]string{
		"note": "contact me at ghost@mailinator.com",
	}
	if v := DetectSuspiciousInput(note); v.Suspicious {
		t.Fatalf("non-email field flagged for domain: %v", v.Reasons)
	}
}
