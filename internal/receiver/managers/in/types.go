package in

import (
	"context"
	"net"
	"sync"

	"gelfgate/internal/queue/mpmc"
	"gelfgate/internal/receiver/listener"
)

type InstanceManager struct {
	Mu        sync.Mutex        // For add/remove operations
	nextID    int               // Next free ID for new instance
	Instances map[int]*Instance // Existing running instances
	port      int               // Network listen port
	outbox    *mpmc.Queue[listener.Container]
	ctx       context.Context
}

type Instance struct {
	Listener *listener.Instance // Network packet reader
	conn     *net.UDPConn       // Socket (reused) for the listener

	wg     sync.WaitGroup     // Waiter for instance
	cancel context.CancelFunc // Stop instance
}
