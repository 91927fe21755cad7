package output

import (
	"gelfgate/internal/externalio/beats"
	"gelfgate/internal/externalio/file"
	"gelfgate/internal/queue/mpmc"
	"gelfgate/pkg/gelf"
)

type Instance struct {
	Namespace []string
	FileMod   *file.OutModule
	BeatsMod  *beats.OutModule
	Inbox     *mpmc.Queue[gelf.Envelope]
	Metrics   MetricStorage
}
