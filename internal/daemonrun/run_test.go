package daemonrun

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"taiyaku/internal/ipc"
	"taiyaku/internal/testsupport"
)

func TestRunServesUntilCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, Options{LogLevel: "error"}) }()

	var client *ipc.Client
	deadline := time.Now().Add(5 * time.Second)
	for {
		var err error
		client, err = ipc.Dial(cfg.Paths.SocketPath)
		if err == nil {
			break
		}
		select {
		case runErr := <-done:
			if runErr != nil && strings.Contains(runErr.Error(), "operation not permitted") {
				t.Skipf("skipping daemon run test: %v", runErr)
			}
			t.Fatalf("Run exited early: %v", runErr)
		default:
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("daemon socket never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	status, err := client.Status()
	client.Close()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.PID != os.Getpid() {
		t.Fatalf("unexpected pid %d", status.PID)
	}
	waitForPID(t, cfg.PIDPath())
	if pid, err := ReadPID(cfg); err != nil || pid != os.Getpid() {
		t.Fatalf("ReadPID = %d, %v", pid, err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if _, err := os.Stat(cfg.PIDPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected pid file removed, stat err=%v", err)
	}
	if _, err := os.Stat(cfg.Paths.SocketPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected socket removed, stat err=%v", err)
	}
}

func waitForPID(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("pid file %s never appeared", path)
}
