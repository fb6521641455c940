//go:build linux

package ipc

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

func peerUID(conn net.Conn) (int, bool, error) {
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return 0, false, fmt.Errorf("peer uid: connection is not unix")
	}

	file, err := unixConn.File()
	if err != nil {
		return 0, false, fmt.Errorf("peer uid: unix socket file: %w", err)
	}
	defer file.Close()

	cred, err := unix.GetsockoptUcred(int(file.Fd()), unix.SOL_SOCKET, unix.SO_PEERCRED)
	if err != nil {
		return 0, false, fmt.Errorf("peer uid: getsockopt ucred: %w", err)
	}
	return int(cred.Uid), true, nil
}
