//go:build windows

package singleinstance

import "testing"

func testLockName(t *testing.T, name string) string {
	t.Helper()
	return `Local\hotkeyd-test-` + name
}
