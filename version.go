package darwin

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is the current SDK version.
//
// This version follows semantic versioning (https://semver.org/).
// The version is incremented according to the following rules:
//   - MAJOR: Breaking changes to the public API
//   - MINOR: New features, backwards compatible
//   - PATCH: Bug fixes, backwards compatible
const Version = "0.1.0"

// APIVersion is the Darwin API version this SDK was built for. Item and
// workflow endpoints live under the "v2/" prefix of that version.
const APIVersion = "2.0.0"

// APIVersionRange is the semver constraint of API versions the SDK
// supports.
const APIVersionRange = ">=2.0.0 <3.0.0"

var targetVersion = semver.MustParse(APIVersion)

// CompatibilityStatus is the outcome of a version check.
type CompatibilityStatus int

const (
	// Unknown means the version could not be parsed.
	Unknown CompatibilityStatus = iota

	// Compatible means the version satisfies [APIVersionRange].
	Compatible

	// Incompatible means the version is outside [APIVersionRange].
	Incompatible
)

func (s CompatibilityStatus) String() string {
	switch s {
	case Compatible:
		return "compatible"
	case Incompatible:
		return "incompatible"
	default:
		return "unknown"
	}
}

// CompatibilityResult describes how an API version relates to this SDK.
type CompatibilityResult struct {
	Status           CompatibilityStatus
	ServerVersion    string
	SDKVersion       string
	TargetAPIVersion string
	SupportedRange   string
	Message          string
}

// IsCompatible returns true if Status is [Compatible].
func (r CompatibilityResult) IsCompatible() bool {
	return r.Status == Compatible
}

// CheckCompatibility compares an API version against [APIVersionRange].
func CheckCompatibility(version string) CompatibilityResult {
	result := CompatibilityResult{
		ServerVersion:    version,
		SDKVersion:       Version,
		TargetAPIVersion: APIVersion,
		SupportedRange:   APIVersionRange,
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		result.Status = Unknown
		result.Message = fmt.Sprintf("cannot parse API version %q: %v", version, err)
		return result
	}

	constraint, err := semver.NewConstraint(APIVersionRange)
	if err != nil {
		result.Status = Unknown
		result.Message = fmt.Sprintf("invalid supported range %q: %v", APIVersionRange, err)
		return result
	}

	// Prereleases of a supported version count as supported.
	if v.Prerelease() != "" {
		if base, err := v.SetPrerelease(""); err == nil {
			v = &base
		}
	}

	if constraint.Check(v) {
		result.Status = Compatible
		result.Message = fmt.Sprintf("API version %s is compatible with SDK %s", version, Version)
	} else {
		result.Status = Incompatible
		result.Message = fmt.Sprintf("API version %s is not compatible with SDK %s (supports %s)", version, Version, APIVersionRange)
	}
	return result
}

// IsCompatible returns true if version satisfies [APIVersionRange].
func IsCompatible(version string) bool {
	return CheckCompatibility(version).IsCompatible()
}

// MustBeCompatible panics unless version satisfies [APIVersionRange].
func MustBeCompatible(version string) {
	if r := CheckCompatibility(version); !r.IsCompatible() {
		panic("darwin: " + r.Message)
	}
}

// IsTargetVersion returns true if version is exactly [APIVersion].
func IsTargetVersion(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return v.Equal(targetVersion)
}
