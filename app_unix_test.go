//go:build !windows

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func testControlEndpoint(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "hkd")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "ctl.sock")
}
