package pyxel

import (
	"fmt"

	"github.com/coreos/go-semver/semver"
)

// SupportedVersion is the only PyxelEdit schema version this package accepts.
// Field semantics (blend-mode values, tile-ref encoding) are not stable across
// versions, so other versions are rejected outright rather than parsed
// best-effort.
var SupportedVersion = semver.Version{Major: 0, Minor: 4, Patch: 8}

// validateVersion checks the descriptor's declared version against
// SupportedVersion before any further interpretation. The error carries both
// the found and the supported version.
func validateVersion(raw *rawDescriptor) (semver.Version, error) {
	v, err := semver.NewVersion(raw.version)
	if err != nil {
		return semver.Version{}, fmt.Errorf("%w: found %q, supported %s", ErrUnsupportedVersion, raw.version, SupportedVersion)
	}
	if v.Compare(SupportedVersion) != 0 {
		return semver.Version{}, fmt.Errorf("%w: found %s, supported %s", ErrUnsupportedVersion, v, SupportedVersion)
	}
	return *v, nil
}
