package preflight

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/nats-io/nats.go"
	"golang.org/x/sys/unix"

	"taiyaku/internal/store"
)

const probeTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFont verifies that path holds a TrueType font the PDF renderer can load.
func CheckFont(path string) Result {
	const name = "PDF font"
	if err := sniffTrueType(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFontLocation(filepath.Dir(path))
	pdf.AddUTF8Font("probe", "", filepath.Base(path))
	pdf.SetFont("probe", "", 12)
	if err := pdf.Error(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// sniffTrueType checks the sfnt version tag. OpenType CFF and collections
// are not supported by the renderer.
func sniffTrueType(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var tag [4]byte
	if _, err := io.ReadFull(f, tag[:]); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	switch string(tag[:]) {
	case "\x00\x01\x00\x00", "true":
		return nil
	default:
		return fmt.Errorf("not a TrueType font")
	}
}

// CheckPostgres opens and closes a storage engine against dsn.
func CheckPostgres(ctx context.Context, dsn string) Result {
	const name = "PostgreSQL"
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	engine, err := store.Open(ctx, store.Options{Driver: store.Postgres.Name(), DSN: dsn})
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	_ = engine.Close()
	return Result{Name: name, Passed: true, Detail: "reachable"}
}

// CheckNATS connects to url and disconnects.
func CheckNATS(ctx context.Context, url string) Result {
	const name = "NATS"
	timeout := probeTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	nc, err := nats.Connect(url, nats.Name("taiyaku-preflight"), nats.Timeout(timeout))
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", url, err)}
	}
	nc.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", url)}
}
