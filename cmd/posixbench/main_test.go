//go:build linux

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestBuildRunner_UnknownBenchmark(t *testing.T) {
	_, err := buildRunner("does-not-exist", 1)
	assert.Error(t, err)
}

func TestBuildRunner_KnownNamesConstructSuccessfully(t *testing.T) {
	for _, name := range benchmarkNames {
		r, err := buildRunner(name, 2)
		if err != nil {
			// Benchmarks touching real file descriptors (open, eventfd)
			// may be unavailable in a restricted sandbox; everything
			// else must construct cleanly.
			switch name {
			case "open", "eventfd", "eventfd-nonblock":
				t.Logf("buildRunner(%q) returned %v", name, err)
			default:
				t.Errorf("buildRunner(%q) returned %v", name, err)
			}
			continue
		}
		assert.NoError(t, r.Close())
	}
}
