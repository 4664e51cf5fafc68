package versions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtLeast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		version  string
		minimum  string
		expected bool
	}{
		{name: "newer major version", version: "2.0.0", minimum: "1.0.0", expected: true},
		{name: "newer minor version", version: "1.2.0", minimum: "1.1.0", expected: true},
		{name: "newer patch version", version: "1.0.2", minimum: "1.0.1", expected: true},
		{name: "equal versions", version: "1.0.0", minimum: "1.0.0", expected: true},
		{name: "older major version", version: "0.30.0", minimum: "1.0.0", expected: false},
		{name: "older minor version", version: "1.1.0", minimum: "1.2.0", expected: false},
		{name: "prerelease below release", version: "1.0.0-rc.1", minimum: "1.0.0", expected: false},
		{name: "v prefix", version: "v1.12.3", minimum: "1.0.0", expected: true},
		{name: "invalid version", version: "nightly", minimum: "1.0.0", expected: false},
		{name: "invalid minimum", version: "1.0.0", minimum: "latest", expected: false},
		{name: "empty version", version: "", minimum: "1.0.0", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, AtLeast(tt.version, tt.minimum))
		})
	}
}
