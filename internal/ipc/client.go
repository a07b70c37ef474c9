package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"
)

const (
	defaultDialTimeout = 3 * time.Second
	defaultRWTimeout   = 15 * time.Second
)

// Send delivers one request to the daemon and waits for its response.
func Send(endpoint string, req Request) (Response, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint()
	}

	conn, err := dial(endpoint, defaultDialTimeout)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(defaultRWTimeout)); err != nil {
		return Response{}, fmt.Errorf("set deadline: %w", err)
	}

	rawReq, err := encodeRequest(req)
	if err != nil {
		return Response{}, err
	}
	if _, err := conn.Write(append(rawReq, '\n')); err != nil {
		return Response{}, err
	}

	rawResp, err := readFrame(bufio.NewReaderSize(conn, maxResponseBytes+1), maxResponseBytes)
	if err != nil {
		return Response{}, err
	}
	resp, err := decodeResponse(rawResp)
	if err != nil {
		return Response{}, fmt.Errorf("invalid response: %w", err)
	}
	return resp, nil
}

// IsConnectionError reports whether err means no daemon is listening.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ENOENT) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial" || opErr.Op == "open"
	}
	return false
}
