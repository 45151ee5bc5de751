package analysis

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "crlf collapses to lf", raw: "a,b\r\n1,2\r\n", want: "a,b\n1,2"},
		{name: "lines trimmed", raw: "a,b  \n  1,2", want: "a,b\n1,2"},
		{name: "blank lines dropped", raw: "a,b\n\n  \n1,2\n\n", want: "a,b\n1,2"},
		{name: "already normalized unchanged", raw: "a,b\n1,2", want: "a,b\n1,2"},
		{name: "blank input becomes empty", raw: " \n \n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize(tt.raw); got != tt.want {
				t.Errorf("normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFingerprintInvariance(t *testing.T) {
	base := Fingerprint("a,b\n1,2\n3,4")

	variants := map[string]string{
		"crlf endings":         "a,b\r\n1,2\r\n3,4",
		"trailing whitespace":  "a,b  \n1,2\t\n3,4",
		"trailing blank lines": "a,b\n1,2\n3,4\n\n\n",
		"leading line spaces":  "  a,b\n  1,2\n  3,4",
	}
	for name, raw := range variants {
		if got := Fingerprint(raw); got != base {
			t.Errorf("%s: fingerprint %s differs from base %s", name, got, base)
		}
	}
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	a := Fingerprint("a,b\n1,2")
	b := Fingerprint("a,b\n1,3")
	if a == b {
		t.Error("different content produced identical fingerprints")
	}
}

func TestFingerprintFormat(t *testing.T) {
	got := Fingerprint("a,b\n1,2")
	if len(got) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex characters", len(got))
	}
	for _, r := range got {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Errorf("fingerprint contains non-hex character %q", r)
		}
	}
}
