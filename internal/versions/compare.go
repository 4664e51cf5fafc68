package versions

import "github.com/Masterminds/semver/v3"

// AtLeast reports whether version is greater than or equal to minimum using
// semantic versioning. Versions that are not valid semver never satisfy it.
func AtLeast(version, minimum string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	m, err := semver.NewVersion(minimum)
	if err != nil {
		return false
	}
	return !v.LessThan(m)
}
