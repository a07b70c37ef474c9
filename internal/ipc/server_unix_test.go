//go:build !windows

package ipc

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// shortSocketPath keeps the path under the sun_path limit on macOS.
func shortSocketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "hk")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "ctl.sock")
}

func startServer(t *testing.T, exec Executor) *Server {
	t.Helper()
	srv := NewServer(shortSocketPath(t), exec)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.Stop() })
	return srv
}

func TestServerRoundTrip(t *testing.T) {
	srv := startServer(t, ExecutorFunc(func(req Request) Response {
		return Response{Stdout: req.Command + ":" + strings.Join(req.Args, ",")}
	}))

	resp, err := Send(srv.Endpoint(), Request{Command: "Binds", Args: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.ExitCode != 0 || resp.Stdout != "binds:a,b" {
		t.Fatalf("Send() = %+v", resp)
	}
}

func TestServerRecoversFromExecutorPanic(t *testing.T) {
	srv := startServer(t, ExecutorFunc(func(Request) Response { panic("boom") }))

	resp, err := Send(srv.Endpoint(), Request{Command: CommandStatus})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.ExitCode == 0 {
		t.Fatalf("Send() = %+v, want failure", resp)
	}
	// The server keeps serving after a panic.
	if _, err := Send(srv.Endpoint(), Request{Command: CommandStatus}); err != nil {
		t.Fatalf("second Send() error = %v", err)
	}
}

func TestServerRejectsMalformedRequest(t *testing.T) {
	srv := startServer(t, ExecutorFunc(func(Request) Response { return Response{} }))

	conn, err := net.Dial("unix", srv.Endpoint())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("not json\n")); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 512)
	n, _ := conn.Read(buf)
	if !strings.Contains(string(buf[:n]), "invalid request") {
		t.Fatalf("response = %q, want invalid request", buf[:n])
	}
}

func TestListenRefusesLiveSocketAndReplacesStaleOne(t *testing.T) {
	srv := startServer(t, ExecutorFunc(func(Request) Response { return Response{} }))
	if _, err := listen(srv.Endpoint()); err == nil {
		t.Fatal("listen() on a live socket succeeded")
	}

	stale := shortSocketPath(t)
	if err := os.WriteFile(stale, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	l, err := listen(stale)
	if err != nil {
		t.Fatalf("listen() over a stale file error = %v", err)
	}
	defer l.Close()
	info, err := os.Stat(stale)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("socket mode = %o, want 600", perm)
	}
}

func TestSendWithoutServerIsConnectionError(t *testing.T) {
	_, err := Send(shortSocketPath(t), Request{Command: CommandStatus})
	if !IsConnectionError(err) {
		t.Fatalf("Send() error = %v, want a connection error", err)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	srv := NewServer(shortSocketPath(t), ExecutorFunc(func(Request) Response { return Response{} }))
	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop() before Start error = %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatal(err)
	}
	if err := srv.Start(); err == nil {
		t.Fatal("second Start() succeeded")
	}
	if err := srv.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := srv.Stop(); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultEndpointPrefersRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := DefaultEndpoint(); got != "/run/user/1000/hotkeyd.sock" {
		t.Fatalf("DefaultEndpoint() = %q", got)
	}
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("USER", "unit user!")
	if got := DefaultEndpoint(); filepath.Base(got) != "hotkeyd-unit_user_.sock" {
		t.Fatalf("DefaultEndpoint() = %q", got)
	}
}
