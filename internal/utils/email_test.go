package utils

import "testing"

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"A@B.com", "a@b.com"},
		{"a@b.com ", "a@b.com"},
		{"  ALICE@X.COM  ", "alice@x.com"},
		{"already@ok.io", "already@ok.io"},
	}
	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
