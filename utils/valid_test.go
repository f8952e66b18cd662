package utils

import "testing"

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"trims whitespace", "  hello  ", "hello"},
		{"escapes html", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"strips control chars", "he\x00llo\x07", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeInput(tt.input); got != tt.want {
				t.Errorf("SanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	got, err := SanitizeEmail("  User@Example.COM ")
	if err != nil {
		t.Fatalf("SanitizeEmail() error = %v", err)
	}
	if got != "user@example.com" {
		t.Errorf("SanitizeEmail() = %q, want %q", got, "user@example.com")
	}

	for _, bad := range []string{"", "not-an-email", "a@b", "user@.com"} {
		if _, err := SanitizeEmail(bad); err == nil {
			t.Errorf("SanitizeEmail(%q) expected error", bad)
		}
	}
}

func TestSanitizePhone(t *testing.T) {
	got, err := SanitizePhone("+44 (0) 20 7946 0958")
	if err != nil {
		t.Fatalf("SanitizePhone() error = %v", err)
	}
	if got != "+4402079460958" {
		t.Errorf("SanitizePhone() = %q", got)
	}

	// Optional field: empty passes through
	got, err = SanitizePhone("  ")
	if err != nil || got != "" {
		t.Errorf("SanitizePhone(blank) = %q, %v; want empty, nil", got, err)
	}

	if _, err := SanitizePhone("123"); err == nil {
		t.Error("SanitizePhone(short) expected error")
	}
}
