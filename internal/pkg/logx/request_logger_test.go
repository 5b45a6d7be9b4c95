package logx

import "testing"

func TestAnonymizeIP(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"203.0.113.77:5123", "203.0.113.0"},
		{"203.0.113.77", "203.0.113.0"},
		{"10.20.30.40:1", "10.20.30.0"},
		{"[::ffff:198.51.100.9]:8080", "198.51.100.0"},
		{"127.0.0.1:80", "127.0.0.1"},
		{"[::1]:80", "127.0.0.1"},
		{"[2001:db8:1234:5678:9abc::1]:443", "2001:db8:1234:5678::"},
		{"not-an-ip", "unknown_ip"},
	}

	for _, tc := range cases {
		if got := anonymizeIP(tc.in); got != tc.want {
			t.Fatalf("anonymizeIP(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
