package config

import "testing"

func TestRemoteEnabled(t *testing.T) {
	for _, tc := range []struct {
		addr, key string
		want      bool
	}{
		{"", "", false},
		{"db.prod.internal:5432", "", false},
		{"", "s3cret", false},
		{placeholderAddr, "s3cret", false},
		{"db.prod.internal:5432", placeholderKey, false},
		{"db.prod.internal:5432", "s3cret", true},
	} {
		c := Config{RemoteAddr: tc.addr, RemoteKey: tc.key}
		if got := c.RemoteEnabled(); got != tc.want {
			t.Fatalf("addr=%q key=%q: want %v, got %v", tc.addr, tc.key, tc.want, got)
		}
	}
}
