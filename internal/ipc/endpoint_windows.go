//go:build windows

package ipc

import (
	"errors"
	"fmt"
	"net"
	"os/user"
	"regexp"
	"strings"
	"time"

	"github.com/Microsoft/go-winio"

	"hotkeyd/internal/userutil"
)

const defaultPipePrefix = `\\.\pipe\hotkeyd-`

// DefaultEndpoint returns a per-user named pipe.
func DefaultEndpoint() string {
	return defaultPipePrefix + userutil.CurrentUsername()
}

// listen creates a named pipe whose DACL grants access only to SYSTEM and
// the current user.
func listen(pipeName string) (net.Listener, error) {
	securityDescriptor, err := pipeSecurityDescriptor()
	if err != nil {
		return nil, err
	}
	return winio.ListenPipe(pipeName, &winio.PipeConfig{
		SecurityDescriptor: securityDescriptor,
		MessageMode:        false,
		InputBufferSize:    int32(maxRequestBytes),
		OutputBufferSize:   int32(maxResponseBytes),
	})
}

func dial(pipeName string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(pipeName, &timeout)
}

var validSIDPattern = regexp.MustCompile(`^S-1(-\d+)+$`)

func pipeSecurityDescriptor() (string, error) {
	current, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("resolve current user: %w", err)
	}
	sid := strings.TrimSpace(current.Uid)
	if sid == "" {
		return "", errors.New("current user SID is unavailable")
	}
	if !validSIDPattern.MatchString(sid) {
		return "", fmt.Errorf("current user SID has unexpected format: %s", sid)
	}
	// D:P protected DACL, full access for SYSTEM and the current user.
	return fmt.Sprintf("D:P(A;;GA;;;SY)(A;;GA;;;%s)", sid), nil
}
