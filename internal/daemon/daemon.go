package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/nats-io/nats.go"
	natsserver "github.com/nats-io/nats-server/v2/server"

	"taiyaku/internal/config"
	"taiyaku/internal/dispatch"
	"taiyaku/internal/ipc"
	"taiyaku/internal/logging"
	"taiyaku/internal/natsrpc"
	"taiyaku/internal/scripts"
	"taiyaku/internal/store"
	"taiyaku/internal/transfer"
)

// ErrAlreadyRunning is returned when another daemon holds the instance lock.
var ErrAlreadyRunning = errors.New("another taiyaku daemon instance is already running")

// Daemon wires storage to the transports and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock

	mu         sync.Mutex
	running    bool
	cancel     context.CancelFunc
	engine     *store.Engine
	repo       *scripts.Repository
	dispatcher *dispatch.Dispatcher
	ipcServer  *ipc.Server
	embedded   *natsserver.Server
	natsConn   *nats.Conn
	natsServer *natsrpc.Server
	api        *apiServer
}

// Status represents daemon runtime information.
type Status struct {
	Running    bool                     `json:"running"`
	PID        int                      `json:"pid"`
	LockPath   string                   `json:"lock_path"`
	SocketPath string                   `json:"socket_path"`
	APIAddress string                   `json:"api_address,omitempty"`
	NATSURL    string                   `json:"nats_url,omitempty"`
	Store      *dispatch.StatusResponse `json:"store,omitempty"`
	StoreError string                   `json:"store_error,omitempty"`
}

// New constructs a daemon; nothing is opened until Start.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the lock, opens storage, and starts every configured transport.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if err := d.open(runCtx); err != nil {
		d.teardown()
		return err
	}
	d.running = true
	d.logger.Info("taiyaku daemon started",
		logging.String("lock", d.lockPath),
		logging.String("socket", d.cfg.Paths.SocketPath),
		logging.Generation(string(d.repo.Generation())))
	return nil
}

func (d *Daemon) open(ctx context.Context) error {
	engine, err := store.Open(ctx, store.Options{
		Driver: d.cfg.Storage.Driver,
		Path:   d.cfg.DatabasePath(),
		DSN:    d.cfg.Storage.DSN,
		Logger: d.logger,
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	d.engine = engine

	gen, err := scripts.ParseGeneration(d.cfg.Storage.Generation)
	if err != nil {
		return err
	}
	repo, err := scripts.Open(ctx, engine, gen, d.logger)
	if err != nil {
		return fmt.Errorf("open scripts: %w", err)
	}
	d.repo = repo

	bridge := transfer.New(repo, transfer.Options{PDFFont: d.cfg.Export.PDFFont}, d.logger)
	d.dispatcher = dispatch.New(repo, bridge, dispatch.Options{BaseDir: d.cfg.Export.DefaultDir}, d.logger)

	ipcServer, err := ipc.NewServer(ctx, d.cfg.Paths.SocketPath, d.dispatcher, d.logger)
	if err != nil {
		return fmt.Errorf("start ipc server: %w", err)
	}
	d.ipcServer = ipcServer
	ipcServer.Serve()

	if d.cfg.NATS.Enabled {
		if err := d.startNATS(); err != nil {
			return err
		}
	}

	api := newAPIServer(d.cfg.API, d.dispatcher, d.baseStatus(), d.logger)
	if err := api.start(ctx); err != nil {
		return err
	}
	d.api = api
	return nil
}

func (d *Daemon) startNATS() error {
	url := d.cfg.NATS.URL
	if d.cfg.NATS.Embedded {
		ns, err := natsrpc.StartEmbedded("127.0.0.1", d.cfg.NATS.EmbeddedPort, 5*time.Second)
		if err != nil {
			return err
		}
		d.embedded = ns
		url = ns.ClientURL()
		d.logger.Info("embedded NATS server started", logging.String("url", url))
	}
	nc, err := nats.Connect(url, nats.Name("taiyakud"))
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	d.natsConn = nc
	srv, err := natsrpc.NewServer(nc, d.cfg.NATS.SubjectPrefix, d.dispatcher, d.logger)
	if err != nil {
		return err
	}
	d.natsServer = srv
	return nil
}

// Stop shuts down the transports, closes storage, and releases the lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	d.teardown()
	d.running = false
	d.logger.Info("taiyaku daemon stopped")
}

// teardown closes whatever open managed to start, newest first.
func (d *Daemon) teardown() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.api != nil {
		d.api.stop()
		d.api = nil
	}
	if d.natsServer != nil {
		d.natsServer.Close()
		d.natsServer = nil
	}
	if d.natsConn != nil {
		d.natsConn.Close()
		d.natsConn = nil
	}
	if d.embedded != nil {
		d.embedded.Shutdown()
		d.embedded = nil
	}
	if d.ipcServer != nil {
		d.ipcServer.Close()
		d.ipcServer = nil
	}
	d.dispatcher = nil
	d.repo = nil
	if d.engine != nil {
		if err := d.engine.Close(); err != nil {
			d.logger.Warn("failed to close storage", logging.Error(err))
		}
		d.engine = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}

// Close is Stop; it exists so the daemon can sit in a closer list.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Dispatcher returns the running dispatcher, or nil when stopped.
func (d *Daemon) Dispatcher() *dispatch.Dispatcher {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dispatcher
}

// APIAddress returns the HTTP API listen address, or "" when disabled.
func (d *Daemon) APIAddress() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.api.address()
}

// NATSURL returns the NATS server the daemon is connected to, if any.
func (d *Daemon) NATSURL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.natsConn == nil {
		return ""
	}
	return d.natsConn.ConnectedUrlRedacted()
}

// Status reports runtime information, including store statistics when running.
func (d *Daemon) Status(ctx context.Context) Status {
	d.mu.Lock()
	status := d.baseStatus()
	status.Running = d.running
	status.APIAddress = d.api.address()
	dispatcher := d.dispatcher
	d.mu.Unlock()

	return withStoreStatus(ctx, status, dispatcher)
}

// baseStatus must be called with d.mu held.
func (d *Daemon) baseStatus() Status {
	status := Status{
		Running:    true,
		PID:        os.Getpid(),
		LockPath:   d.lockPath,
		SocketPath: d.cfg.Paths.SocketPath,
	}
	if d.natsConn != nil {
		status.NATSURL = d.natsConn.ConnectedUrlRedacted()
	}
	return status
}

func withStoreStatus(ctx context.Context, status Status, dispatcher *dispatch.Dispatcher) Status {
	if dispatcher == nil {
		return status
	}
	storeStatus, err := dispatcher.Status(ctx)
	if err != nil {
		status.StoreError = err.Error()
	} else {
		status.Store = &storeStatus
	}
	return status
}
