package processor

import (
	"gelfgate/internal/queue/mpmc"
	"gelfgate/internal/receiver/listener"
	"gelfgate/internal/receiver/pending"
	"gelfgate/pkg/gelf"
)

type Instance struct {
	Namespace []string
	inbox     *mpmc.Queue[listener.Container]
	store     *pending.Store
	outbox    *mpmc.Queue[gelf.Envelope]
	Metrics   MetricStorage
}
