package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"
)

const (
	defaultConnTimeout              = 10 * time.Second
	maxRequestBytes                 = 16 * 1024
	maxResponseBytes                = 256 * 1024
	defaultMaxConcurrentConnections = 8
	connSlotAcquireTimeout          = 2 * time.Second
)

// Server answers control requests on a unix socket or, on Windows, a named
// pipe restricted to the current user.
type Server struct {
	endpoint string
	executor Executor

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	listener  net.Listener
	started   bool
	wg        sync.WaitGroup
	connSlots chan struct{}
}

// NewServer constructs a Server. An empty endpoint selects DefaultEndpoint.
func NewServer(endpoint string, executor Executor) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	if endpoint == "" {
		endpoint = DefaultEndpoint()
	}
	return &Server{
		endpoint:  endpoint,
		executor:  executor,
		ctx:       ctx,
		cancel:    cancel,
		connSlots: make(chan struct{}, defaultMaxConcurrentConnections),
	}
}

// Endpoint returns the listen address.
func (s *Server) Endpoint() string {
	return s.endpoint
}

// Start begins listening.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.New("control server already started")
	}
	if s.executor == nil {
		return errors.New("control server requires an executor")
	}

	listener, err := listen(s.endpoint)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.endpoint, err)
	}

	s.listener = listener
	s.started = true
	s.wg.Go(s.acceptLoop)
	slog.Info("[ipc] control server listening", "endpoint", s.endpoint)
	return nil
}

// Stop closes the listener and waits for in-flight requests.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.cancel()
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()

	if listener != nil {
		if err := listener.Close(); err != nil {
			slog.Warn("[ipc] failed to close control listener during shutdown", "error", err)
		}
	}
	s.wg.Wait()
	return nil
}

func (s *Server) acceptLoop() {
	consecutiveErrors := 0
	for {
		s.mu.Lock()
		listener := s.listener
		s.mu.Unlock()
		if listener == nil {
			return
		}

		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			consecutiveErrors++
			if consecutiveErrors > 10 {
				slog.Warn("[ipc] accept loop: repeated failures", "error", err, "count", consecutiveErrors)
				time.Sleep(500 * time.Millisecond)
			} else {
				slog.Debug("[ipc] accept error", "error", err)
			}
			continue
		}
		consecutiveErrors = 0

		if !s.acquireConnectionSlot() {
			s.writeResponse(conn, Failure("server busy, try again later"))
			if closeErr := conn.Close(); closeErr != nil {
				slog.Debug("[ipc] failed to close rejected connection", "error", closeErr)
			}
			continue
		}

		s.wg.Go(func() {
			defer s.releaseConnectionSlot()
			s.handleConnection(conn)
		})
	}
}

// handleConnection serves one request on conn under a fixed deadline.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		slog.Warn("[ipc] failed to set connection deadline", "error", err)
		return
	}

	reader := bufio.NewReaderSize(conn, maxRequestBytes+1)
	rawReq, err := readFrame(reader, maxRequestBytes)
	if errors.Is(err, io.EOF) {
		slog.Debug("[ipc] client disconnected without sending data")
		return
	}
	if err != nil {
		s.writeResponse(conn, Failure(fmt.Sprintf("invalid request: %v", err)))
		return
	}

	req, err := decodeRequest(rawReq)
	if err != nil {
		s.writeResponse(conn, Failure(fmt.Sprintf("invalid request: %v", err)))
		return
	}

	slog.Debug("[ipc] received control request", "command", req.Command, "args", req.Args)
	s.writeResponse(conn, s.execute(req))
}

func (s *Server) execute(req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ipc] panic while executing control request", "command", req.Command, "panic", r)
			resp = Failure("internal error")
		}
	}()
	return s.executor.Execute(req)
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	rawResp, err := encodeResponse(resp)
	if err != nil {
		slog.Warn("[ipc] failed to encode response", "error", err, "exitCode", resp.ExitCode)
		rawResp = []byte(`{"exit_code":1,"stderr":"internal encode error\n"}`)
	}
	if _, err := conn.Write(append(rawResp, '\n')); err != nil {
		slog.Debug("[ipc] failed to write response", "error", err)
	}
}

// readFrame reads one newline-terminated frame of at most maxBytes. Data
// cut off by EOF without a delimiter is still returned.
func readFrame(reader *bufio.Reader, maxBytes int) ([]byte, error) {
	raw, err := reader.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("frame exceeds %d bytes", maxBytes)
	}
	if errors.Is(err, io.EOF) {
		if len(raw) == 0 {
			return nil, io.EOF
		}
		return raw, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *Server) acquireConnectionSlot() bool {
	timer := time.NewTimer(connSlotAcquireTimeout)
	defer timer.Stop()
	select {
	case s.connSlots <- struct{}{}:
		return true
	case <-timer.C:
		slog.Warn("[ipc] connection slots exhausted, rejecting client")
		return false
	case <-s.ctx.Done():
		return false
	}
}

func (s *Server) releaseConnectionSlot() {
	select {
	case <-s.connSlots:
	default:
		slog.Warn("[ipc] releaseConnectionSlot: no slot to release")
	}
}
