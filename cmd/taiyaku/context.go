package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"taiyaku/internal/config"
	"taiyaku/internal/dispatch"
	"taiyaku/internal/ipc"
	"taiyaku/internal/natsrpc"
)

// backend is the operation surface shared by the socket and NATS clients.
type backend interface {
	Save(dispatch.SaveRequest) (*dispatch.SaveResponse, error)
	GetAll() (*dispatch.ListResponse, error)
	Search(dispatch.SearchRequest) (*dispatch.ListResponse, error)
	Update(dispatch.UpdateRequest) (*dispatch.CountResponse, error)
	Delete(id int64) (*dispatch.CountResponse, error)
	Export(dispatch.ExportRequest) (*dispatch.ExportResponse, error)
	Import(dispatch.ImportRequest) (*dispatch.ImportResponse, error)
	Get(id int64) (*dispatch.GetResponse, error)
	Status() (*dispatch.StatusResponse, error)
	Close() error
}

var (
	_ backend = (*ipc.Client)(nil)
	_ backend = (*natsrpc.Client)(nil)
)

type globalFlags struct {
	socket  string
	config  string
	json    bool
	nats    bool
	natsURL string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) socketPath() (string, error) {
	if socket := strings.TrimSpace(c.flags.socket); socket != "" {
		return socket, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.SocketPath, nil
}

func (c *commandContext) natsURL(cfg *config.Config) string {
	if url := strings.TrimSpace(c.flags.natsURL); url != "" {
		return url
	}
	if cfg.NATS.Embedded {
		return fmt.Sprintf("nats://127.0.0.1:%d", cfg.NATS.EmbeddedPort)
	}
	return cfg.NATS.URL
}

func (c *commandContext) withClient(fn func(backend) error) error {
	client, err := c.dialClient()
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func (c *commandContext) dialClient() (backend, error) {
	if c.flags.nats {
		cfg, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		url := c.natsURL(cfg)
		client, err := natsrpc.Dial(url, cfg.NATS.SubjectPrefix, cfg.NATSRequestTimeout())
		if err != nil {
			return nil, fmt.Errorf("connect to daemon over NATS at %s: %w", url, err)
		}
		return client, nil
	}
	socket, err := c.socketPath()
	if err != nil {
		return nil, err
	}
	client, err := ipc.Dial(socket)
	if err != nil {
		return nil, wrapDialError(err, socket)
	}
	return client, nil
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to daemon: socket %s not found; start the daemon with `taiyaku daemon`", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to daemon: socket %s refused the connection; verify the daemon is running", socket)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
