package listener

import (
	"net"
	"time"

	"gelfgate/internal/queue/mpmc"
)

type Instance struct {
	Namespace []string
	conn      *net.UDPConn
	Outbox    *mpmc.Queue[Container]
	Metrics   MetricStorage
}

// For listener-to-processor queue
type Container struct {
	Data []byte
	Meta Metadata
}
type Metadata struct {
	RemoteAddr string
	ReceivedAt time.Time
}
