package pyxel

import (
	"errors"
	"testing"
)

func TestValidateVersion(t *testing.T) {
	cases := []struct {
		version string
		ok      bool
	}{
		{"0.4.8", true},
		{"0.3.0", false},
		{"0.4.7", false},
		{"0.4.9", false},
		{"1.0.0", false},
		{"0.4.8-beta", false},
		{"latest", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run(tc.version, func(t *testing.T) {
			raw := &rawDescriptor{version: tc.version}
			v, err := validateVersion(raw)
			if tc.ok {
				if err != nil {
					t.Fatalf("validateVersion(%q): %v", tc.version, err)
				}
				if v.Compare(SupportedVersion) != 0 {
					t.Errorf("returned version %s, want %s", v, SupportedVersion)
				}
				return
			}
			if !errors.Is(err, ErrUnsupportedVersion) {
				t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
			}
		})
	}
}
