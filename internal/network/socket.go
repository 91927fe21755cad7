// Socket helpers for shared-port UDP intake
package network

import (
	"context"
	"fmt"
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Creates new udp connection object for a port that is already listening
func ReuseUDPPort(port int) (conn *net.UDPConn, err error) {
	// Using x/sys/unix package for more up-to-date syscall numbers
	cfg := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var err error
			c.Control(func(fd uintptr) {
				err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
				if err != nil {
					return
				}
				err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
			return err
		},
	}

	addr := net.UDPAddr{Port: port}
	pc, err := cfg.ListenPacket(context.Background(), "udp", addr.String())
	if err != nil {
		err = fmt.Errorf("failed to listen on new reused connection: %v", err)
		return
	}
	conn = pc.(*net.UDPConn)
	return
}

// Polls the kernel receive buffer of a UDP socket until it is empty or the timeout elapses
func WaitUntilEmptySocket(conn *net.UDPConn, timeout time.Duration) (err error) {
	rawConn, err := conn.SyscallConn()
	if err != nil {
		err = fmt.Errorf("failed to retrieve raw connection: %v", err)
		return
	}

	deadline := time.Now().Add(timeout)
	pollInterval := 50 * time.Millisecond

	for {
		var pending int
		var ctrlErr error
		err = rawConn.Control(func(fd uintptr) {
			pending, ctrlErr = unix.IoctlGetInt(int(fd), unix.SIOCINQ)
		})
		if err != nil {
			err = fmt.Errorf("failed control call on socket: %v", err)
			return
		}
		if ctrlErr != nil {
			err = fmt.Errorf("failed to read socket receive queue size: %v", ctrlErr)
			return
		}

		if pending == 0 {
			return
		}

		if time.Now().After(deadline) {
			err = fmt.Errorf("timed out waiting for socket receive buffer to drain (%d bytes remaining)", pending)
			return
		}

		time.Sleep(pollInterval)
	}
}
