// Package validation provides input validation for ifacecheck.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// Interface names are Vyper identifiers
var interfaceNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateInterfaceName validates the name given for an interface block
func ValidateInterfaceName(name string) error {
	if name == "" {
		return errors.New("interface name cannot be empty")
	}
	if !interfaceNameRegex.MatchString(name) {
		return fmt.Errorf("invalid interface name %q: must be an identifier", name)
	}
	return nil
}

// NormalizeVersion turns a compiler version string into semver form with a
// leading 'v'. Build metadata is dropped and Vyper-style prerelease tags
// ("0.4.0rc6", "0.3.0b17") gain the missing hyphen.
func NormalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "v")
	v, _, _ = strings.Cut(v, "+")

	for i, c := range v {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			if i > 0 && v[i-1] != '-' {
				v = v[:i] + "-" + v[i:]
			}
			break
		}
	}
	return "v" + v
}

// ValidateVersion validates a compiler version string
func ValidateVersion(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("version cannot be empty")
	}

	normalized := NormalizeVersion(v)
	if !semver.IsValid(normalized) {
		return fmt.Errorf("invalid version %q: must be in format X.Y.Z", v)
	}

	// Require major.minor.patch
	main, _, _ := strings.Cut(strings.TrimPrefix(normalized, "v"), "-")
	if strings.Count(main, ".") < 2 {
		return fmt.Errorf("invalid version %q: must be in format X.Y.Z (major.minor.patch)", v)
	}
	return nil
}

// CompareVersions compares two versions
// Returns -1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2
func CompareVersions(v1, v2 string) int {
	return semver.Compare(NormalizeVersion(v1), NormalizeVersion(v2))
}

// IsPrerelease checks if a version is a prerelease
func IsPrerelease(v string) bool {
	return semver.Prerelease(NormalizeVersion(v)) != ""
}

// CheckMinimumVersion returns an error when actual is older than minimum.
// An empty minimum disables the check.
func CheckMinimumVersion(actual, minimum string) error {
	if minimum == "" {
		return nil
	}
	if err := ValidateVersion(minimum); err != nil {
		return fmt.Errorf("minimum version: %w", err)
	}
	if err := ValidateVersion(actual); err != nil {
		return fmt.Errorf("compiler version: %w", err)
	}
	if CompareVersions(actual, minimum) < 0 {
		return fmt.Errorf("compiler version %s is older than required %s", actual, minimum)
	}
	return nil
}
