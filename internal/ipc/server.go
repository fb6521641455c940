package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"taiyaku/internal/dispatch"
	"taiyaku/internal/logging"
)

// Server serves the dispatcher over JSON-RPC on a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer listens on path, replacing any stale socket file.
func NewServer(ctx context.Context, path string, d *dispatch.Dispatcher, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires dispatcher")
	}
	logger = logging.NewComponentLogger(logger, "ipc")

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("restrict socket permissions: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	rpcServer := rpc.NewServer()
	srv := &service{dispatcher: d, ctx: dispatch.WithTransport(serverCtx, "ipc")}
	if err := rpcServer.RegisterName(ServiceName, srv); err != nil {
		cancel()
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Path returns the socket path.
func (s *Server) Path() string { return s.path }

// Serve starts accepting RPC connections until Close is called.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				if errors.Is(err, net.ErrClosed) {
					return
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"))
				continue
			}
			if err := authorizePeer(conn); err != nil {
				s.logger.Warn("rejected IPC peer",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_peer_rejected"))
				conn.Close()
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file. Connections already
// being served finish their current request.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldImpact, "stale IPC socket may confuse clients"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually"))
	}
}

func authorizePeer(conn net.Conn) error {
	uid, ok, err := peerUID(conn)
	if err != nil {
		return err
	}
	if ok && uid != os.Getuid() {
		return fmt.Errorf("peer uid %d does not match daemon uid %d", uid, os.Getuid())
	}
	return nil
}

// service is the receiver registered with net/rpc. Every method returns the
// dispatcher's *Failure unchanged so its text carries the failure kind.
type service struct {
	dispatcher *dispatch.Dispatcher
	ctx        context.Context
}

func (s *service) Save(req SaveRequest, resp *SaveResponse) error {
	out, err := s.dispatcher.Save(s.ctx, req)
	*resp = out
	return err
}

func (s *service) GetAll(_ ListRequest, resp *ListResponse) error {
	out, err := s.dispatcher.GetAll(s.ctx)
	*resp = out
	return err
}

func (s *service) Search(req SearchRequest, resp *ListResponse) error {
	out, err := s.dispatcher.Search(s.ctx, req)
	*resp = out
	return err
}

func (s *service) Update(req UpdateRequest, resp *CountResponse) error {
	out, err := s.dispatcher.Update(s.ctx, req)
	*resp = out
	return err
}

func (s *service) Delete(req DeleteRequest, resp *CountResponse) error {
	out, err := s.dispatcher.Delete(s.ctx, req)
	*resp = out
	return err
}

func (s *service) Export(req ExportRequest, resp *ExportResponse) error {
	out, err := s.dispatcher.Export(s.ctx, req)
	*resp = out
	return err
}

func (s *service) Import(req ImportRequest, resp *ImportResponse) error {
	out, err := s.dispatcher.Import(s.ctx, req)
	*resp = out
	return err
}

func (s *service) Get(req GetRequest, resp *GetResponse) error {
	out, err := s.dispatcher.Get(s.ctx, req)
	*resp = out
	return err
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	out, err := s.dispatcher.Status(s.ctx)
	*resp = out
	return err
}
