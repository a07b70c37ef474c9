// Package ipc carries control requests between the hotkeyd CLI and a running
// daemon. Each connection holds one newline-terminated JSON request followed
// by one newline-terminated JSON response.
package ipc

import (
	"encoding/json"
	"errors"
	"strings"
)

// Control commands understood by the daemon.
const (
	CommandStatus = "status"
	CommandReload = "reload"
	CommandBinds  = "binds"
)

// Request is a single control command.
type Request struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Response is the daemon's answer. A zero ExitCode means success.
type Response struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// Executor handles a request and returns a response.
type Executor interface {
	Execute(req Request) Response
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(Request) Response

// Execute calls f(req).
func (f ExecutorFunc) Execute(req Request) Response { return f(req) }

// Failure builds an error response.
func Failure(msg string) Response {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	return Response{ExitCode: 1, Stderr: msg}
}

func encodeRequest(req Request) ([]byte, error) {
	return json.Marshal(req)
}

func decodeRequest(raw []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, err
	}
	req.Command = strings.ToLower(strings.TrimSpace(req.Command))
	if req.Command == "" {
		return Request{}, errors.New("command is required")
	}
	return req, nil
}

func encodeResponse(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}

func decodeResponse(raw []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}
