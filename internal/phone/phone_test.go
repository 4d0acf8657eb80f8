package phone

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"leading zero", "0412345678", "+61412345678"},
		{"country code without plus", "61412345678", "+61412345678"},
		{"canonical", "+61412345678", "+61412345678"},
		{"punctuation", "(04) 1234-5678", "+61412345678"},
		{"spaces", "0412 345 678", "+61412345678"},
		{"canonical with spaces", "+61 412 345 678", "+61412345678"},
		{"foreign with plus passes through", "+1 (555) 010-9999", "+1 (555) 010-9999"},
		{"foreign without plus", "15550109999", "+15550109999"},
		{"letters only", "abc", "+"},
		{"empty", "", "+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeLeadingZeroProperty(t *testing.T) {
	for _, rest := range []string{"412345678", "498765432", "400000000", "511111111"} {
		raw := "0" + rest
		if got := Normalize(raw); got != "+61"+rest {
			t.Fatalf("Normalize(%q) = %q, want %q", raw, got, "+61"+rest)
		}
	}
}

func TestNormalizeCountryCodeProperty(t *testing.T) {
	for _, rest := range []string{"412345678", "498765432", "400000000"} {
		raw := "61" + rest
		if got := Normalize(raw); got != "+61"+rest {
			t.Fatalf("Normalize(%q) = %q, want %q", raw, got, "+61"+rest)
		}
	}
}

func TestIsValidDomesticMobile(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+61412345678", true},
		{"+6141234567", false},
		{"+614123456789", false},
		{"0412345678", false},
		{"61412345678", false},
		{"+62412345678", false},
		{"+61412345678 ", false},
		{"+61412345678x", false},
		{"+61 412345678", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidDomesticMobile(tt.in); got != tt.want {
			t.Errorf("IsValidDomesticMobile(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
