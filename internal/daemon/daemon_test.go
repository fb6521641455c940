package daemon_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"taiyaku/internal/daemon"
	"taiyaku/internal/ipc"
	"taiyaku/internal/logging"
	"taiyaku/internal/natsrpc"
	"taiyaku/internal/scripts"
	"taiyaku/internal/testsupport"
)

func startDaemon(t *testing.T, d *daemon.Daemon) {
	t.Helper()
	if err := d.Start(context.Background()); err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping daemon test: %v", err)
		}
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(d.Stop)
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	startDaemon(t, d)
	ctx := context.Background()

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.Store == nil || status.Store.Count != 0 || status.Store.Generation != "titled" {
		t.Fatalf("unexpected store status %+v (err=%q)", status.Store, status.StoreError)
	}
	if status.APIAddress != "" {
		t.Fatalf("expected API disabled, got %q", status.APIAddress)
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	status = d.Status(ctx)
	if status.Running || status.Store != nil {
		t.Fatalf("expected daemon to be stopped, got %+v", status)
	}

	// The lock and socket are released, so a fresh start succeeds.
	startDaemon(t, d)
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	startDaemon(t, first)

	second, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(context.Background()); !errors.Is(err, daemon.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestDaemonServesIPC(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	startDaemon(t, d)

	client, err := ipc.Dial(cfg.Paths.SocketPath)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	defer client.Close()

	saved, err := client.Save(ipc.SaveRequest{
		EnglishText:  scripts.StringPtr("Hello"),
		JapaneseText: scripts.StringPtr("こんにちは"),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if status := d.Status(context.Background()); status.Store == nil || status.Store.Count != 1 {
		t.Fatalf("expected one stored script after save %d, got %+v", saved.ID, status)
	}
}

func TestDaemonServesEmbeddedNATS(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithEmbeddedNATS())
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	startDaemon(t, d)

	url := d.NATSURL()
	if url == "" {
		t.Fatal("expected NATS URL")
	}
	client, err := natsrpc.Dial(url, cfg.NATS.SubjectPrefix, cfg.NATSRequestTimeout())
	if err != nil {
		t.Fatalf("natsrpc.Dial: %v", err)
	}
	defer client.Close()

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status over NATS: %v", err)
	}
	if status.Generation != "titled" {
		t.Fatalf("unexpected status %+v", status)
	}
}
