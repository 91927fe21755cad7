package shared

import (
	"gelfgate/internal/receiver/managers/in"
	"gelfgate/internal/receiver/managers/out"
	"gelfgate/internal/receiver/managers/proc"
)

// Pipeline component trackers (reverse order)
type Managers struct {
	Output *out.InstanceManager
	Proc   *proc.InstanceManager
	Input  *in.InstanceManager
}
