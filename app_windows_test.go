//go:build windows

package main

import (
	"strings"
	"testing"
)

func testControlEndpoint(t *testing.T) string {
	t.Helper()
	name := strings.NewReplacer("/", "-", " ", "-").Replace(t.Name())
	return `\\.\pipe\hotkeyd-test-` + name
}
