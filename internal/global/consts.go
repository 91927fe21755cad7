package global

import "time"

const (
	// Descriptive names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgBaseName string = "gelfgate"
	ProgVersion  string = "v0.3.1"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Event queue (mostly for variable log verbosity handling)
	LogTagsKey CtxKey = "logtags" // List of tags in order of broad->specific appended/popped at various parts of the program

	DefaultConfigPath  string = "/etc/gelfgate.json"
	DefaultIntakePort  int    = 12201
	DefaultQueueSize   int    = 1024
	DefaultStoreShards int    = 16

	// Reassembly engine timing
	DefaultSweepInterval time.Duration = 1 * time.Second
	DefaultChunkLifetime time.Duration = 5000 * time.Millisecond

	// Timeout values
	ReceiveShutdownTimeout time.Duration = 20 * time.Second
	QueueDrainTimeout      time.Duration = 10 * time.Second

	// Metric HTTP server
	HTTPListenPort   int           = 10000 + DefaultIntakePort // Default listen port
	HTTPListenAddr   string        = "localhost"               // Metric queries only exposed to local machine
	HTTPReadTimeout  time.Duration = 30 * time.Second
	HTTPWriteTimeout time.Duration = 10 * time.Second
	HTTPIdleTimeout  time.Duration = 180 * time.Second
	DataPath         string        = "/data/"
	DiscoveryPath    string        = "/discover"

	// Kernel socket steering cooperation. The steering program is loaded and pinned by an
	// external deployment step; when the map is absent all drain marking is a no-op.
	KernelDrainMapPath string = "/sys/fs/bpf/gelfgate_draining_sockets"
	DrainSocket        uint8  = 1

	// Namespacing Name Components
	NSMetric    string = "Metrics"
	NSMetricSrv string = "Server"
	NSTest      string = "Test"
	NSRecv      string = "Receiver"
	NSWorker    string = "Worker"
	NSQueue     string = "Queue"
	NSListen    string = "Listener"
	NSSweep     string = "Sweeper"
	NSStore     string = "PendingStore"
	NSOut       string = "Output"
	NSmIngest   string = "Ingest"
	NSmProc     string = "Processing"
	NSmOutput   string = "Out"
	NSoFile     string = "File"
	NSoBeats    string = "Beats"
)
