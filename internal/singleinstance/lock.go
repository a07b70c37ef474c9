// Package singleinstance keeps a second hotkeyd daemon from starting for the
// same user. The lock is released by the OS when the process exits.
package singleinstance

import "errors"

// ErrAlreadyRunning is returned by TryLock when another instance holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")
