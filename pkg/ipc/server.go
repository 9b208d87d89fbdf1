package ipc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/barline/barline/pkg/bar"
	"github.com/barline/barline/pkg/errors"
	"github.com/barline/barline/pkg/observability"
)

// Server accepts client connections on a local unix socket and dispatches
// their commands against a shared bar.Service. Each accepted connection is
// handled by its own goroutine; the per-connection loop is
// read line, dispatch, write line, and reaches its terminal state when the
// reader sees end-of-stream. A failing connection never affects the others.
//
// The store lock lives inside the service and is held only for the
// in-memory work; socket reads and writes happen outside it.
type Server struct {
	svc *bar.Service
	log *log.Logger
	ln  net.Listener
}

// NewServer creates a server for the given service. logger may be nil to
// use the default logger.
func NewServer(svc *bar.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{svc: svc, log: logger}
}

// Listen binds the unix socket, replacing a stale socket file left behind
// by a previous run. It refuses to touch a path that exists but is not a
// socket.
func (s *Server) Listen(socketPath string) error {
	if info, err := os.Stat(socketPath); err == nil {
		if info.Mode()&os.ModeSocket == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "socket path exists and is not a socket: %s", socketPath)
		}
		if err := os.Remove(socketPath); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "cannot remove stale socket")
		}
	}

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "cannot bind socket %s", socketPath)
	}
	s.ln = ln
	s.log.Info("listening", "socket", socketPath)
	return nil
}

// Serve runs the accept loop until ctx is canceled or the listener fails.
// Listen must have been called first.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, net.ErrClosed) {
				return nil
			}
			return errors.Wrap(errors.ErrCodeInternal, err, "accept failed")
		}
		go s.handleConn(conn)
	}
}

// handleConn runs one connection's read-dispatch-write loop.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()[:8]
	start := time.Now()
	observability.Server().OnConnect(connID)
	s.log.Debug("client connected", "conn", connID)
	defer func() {
		observability.Server().OnDisconnect(connID, time.Since(start))
		s.log.Debug("client disconnected", "conn", connID, "uptime", time.Since(start).Round(time.Millisecond))
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		resp := s.dispatch(connID, line)
		payload, err := json.Marshal(resp)
		if err != nil {
			payload = []byte(`{"status":"error","message":"internal encoding error"}`)
		}
		payload = append(payload, '\n')
		if _, err := conn.Write(payload); err != nil {
			s.log.Debug("write failed", "conn", connID, "err", err)
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.log.Debug("read failed", "conn", connID, "err", err)
	}
}

// dispatch decodes one request line and maps it onto the service. Every
// failure, including a malformed line, becomes an error response on this
// connection; nothing here can take the server down.
func (s *Server) dispatch(connID string, line []byte) Response {
	start := time.Now()

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		perr := errors.Wrap(errors.ErrCodeProtocol, err, "invalid command")
		observability.Server().OnCommand(connID, "", time.Since(start), perr)
		return ErrorResponse(perr)
	}

	resp, err := s.handle(req)
	observability.Server().OnCommand(connID, req.Command, time.Since(start), err)
	if err != nil {
		return ErrorResponse(err)
	}
	return resp
}

func (s *Server) handle(req Request) (Response, error) {
	switch req.Command {
	case CommandAdd:
		return s.handleAdd(req)

	case CommandSet:
		if _, err := s.svc.Set(req.Name, req.Properties); err != nil {
			return Response{}, err
		}
		return OK(), nil

	case CommandRemove:
		if _, err := s.svc.Remove(req.Name); err != nil {
			return Response{}, err
		}
		return OK(), nil

	case CommandQuery:
		return QueryResult(s.svc.Query(req.Name, req.Display)), nil

	case CommandDisplays:
		return DisplayList(s.svc.Displays()), nil

	default:
		return Response{}, errors.New(errors.ErrCodeProtocol, "unknown command: %q", req.Command)
	}
}

func (s *Server) handleAdd(req Request) (Response, error) {
	nodeType, err := bar.ParseNodeType(req.NodeType)
	if err != nil {
		return Response{}, err
	}

	n := bar.Node{
		Name:   req.Name,
		Type:   nodeType,
		Parent: req.Parent,
	}
	if req.Position != nil {
		n.Position = *req.Position
	}
	if req.Display != nil {
		n.Display = *req.Display
		n.DisplayExplicit = true
	} else {
		n.Display = s.svc.MainDisplay()
	}
	if len(req.Properties) > 0 {
		n, err = bar.ApplyProperties(n, req.Properties)
		if err != nil {
			return Response{}, err
		}
	}

	if _, err := s.svc.Add(n); err != nil {
		return Response{}, err
	}
	return OK(), nil
}
