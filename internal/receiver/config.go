package receiver

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"gelfgate/internal/global"
)

// Loads JSON config from file
func LoadConfig(path string) (cfg JSONConfig, err error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read config file: %v", err)
		return
	}

	err = json.Unmarshal(configFile, &cfg)
	if err != nil {
		err = fmt.Errorf("invalid config syntax in '%s': %v", path, err)
		return
	}

	return
}

// Writes a starter config with defaults filled in
func CreateTemplateConfig(filepath string) (err error) {
	if filepath == "" {
		err = fmt.Errorf("specify template file path via the --config/-c arguments")
		return
	}

	newConfFile, err := os.OpenFile(filepath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer newConfFile.Close()

	var newCfg JSONConfig
	newCfg.Network.Port = global.DefaultIntakePort

	newCfg.Outputs.FilePath = "/var/log/gelf.log"
	newCfg.Outputs.BeatsAddress = "localhost:5044"

	newCfg.Pipeline.Listeners = 2
	newCfg.Pipeline.Processors = 4
	newCfg.Pipeline.ProcQueueSize = global.DefaultQueueSize
	newCfg.Pipeline.OutputQueueSize = global.DefaultQueueSize
	newCfg.Pipeline.StoreShards = global.DefaultStoreShards

	newCfg.Reassembly.SweepInterval = global.DefaultSweepInterval.String()
	newCfg.Reassembly.ChunkLifetime = global.DefaultChunkLifetime.String()

	newCfg.Metrics.MaxAge = "72h"
	newCfg.Metrics.Interval = "15s"
	newCfg.Metrics.EnableQueryServer = true
	newCfg.Metrics.QueryServerPort = global.HTTPListenPort

	confBytes, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		err = fmt.Errorf("error marshaling new config: %v", err)
		return
	}
	confBytes = append(confBytes, []byte("\n")...)

	_, err = newConfFile.Write(confBytes)
	if err != nil {
		err = fmt.Errorf("failed to write config to file: %v", err)
		return
	}
	return
}

// Parses JSON config into daemon config
func (cfg JSONConfig) NewDaemonConf() (config Config, err error) {
	// Network settings
	config.ListenPort = cfg.Network.Port

	// Output settings
	config.OutputFilePath = cfg.Outputs.FilePath
	config.BeatsEndpoint = cfg.Outputs.BeatsAddress

	// Pipeline sizing
	config.Listeners = cfg.Pipeline.Listeners
	config.Processors = cfg.Pipeline.Processors
	config.ProcQueueSize = cfg.Pipeline.ProcQueueSize
	config.OutputQueueSize = cfg.Pipeline.OutputQueueSize
	config.StoreShards = cfg.Pipeline.StoreShards

	// Reassembly timing
	if cfg.Reassembly.SweepInterval != "" {
		config.SweepInterval, err = time.ParseDuration(cfg.Reassembly.SweepInterval)
		if err != nil {
			err = fmt.Errorf("failed to parse sweep interval time: %v", err)
			return
		}
	}
	if cfg.Reassembly.ChunkLifetime != "" {
		config.ChunkLifetime, err = time.ParseDuration(cfg.Reassembly.ChunkLifetime)
		if err != nil {
			err = fmt.Errorf("failed to parse chunk lifetime time: %v", err)
			return
		}
	}

	// Metric settings
	config.MetricQueryServerEnabled = cfg.Metrics.EnableQueryServer
	config.MetricQueryServerPort = cfg.Metrics.QueryServerPort
	if cfg.Metrics.MaxAge != "" {
		config.MetricMaxAge, err = time.ParseDuration(cfg.Metrics.MaxAge)
		if err != nil {
			err = fmt.Errorf("failed to parse metric max age time: %v", err)
			return
		}
	}
	if cfg.Metrics.Interval != "" {
		config.MetricCollectionInterval, err = time.ParseDuration(cfg.Metrics.Interval)
		if err != nil {
			err = fmt.Errorf("failed to parse metric collection interval time: %v", err)
			return
		}
	}
	return
}

// Sets defaults for any missing/invalid values
func (cfg *Config) setDefaults() {
	logicalCPUCount := runtime.NumCPU()

	// Pipeline sizing
	if cfg.Listeners == 0 {
		cfg.Listeners = 2
	}
	if cfg.Listeners > logicalCPUCount {
		cfg.Listeners = logicalCPUCount
	}
	if cfg.Processors == 0 {
		cfg.Processors = logicalCPUCount
	}
	if cfg.ProcQueueSize == 0 {
		cfg.ProcQueueSize = global.DefaultQueueSize
	}
	if cfg.OutputQueueSize == 0 {
		cfg.OutputQueueSize = global.DefaultQueueSize
	}
	if cfg.StoreShards == 0 {
		cfg.StoreShards = global.DefaultStoreShards
	}

	// Reassembly timing
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = global.DefaultSweepInterval
	}
	if cfg.ChunkLifetime == 0 {
		cfg.ChunkLifetime = global.DefaultChunkLifetime
	}

	// Network
	if cfg.ListenPort == 0 {
		cfg.ListenPort = global.DefaultIntakePort
	}

	// Metrics
	if cfg.MetricMaxAge == 0 {
		cfg.MetricMaxAge = 1 * time.Hour
	}
	if cfg.MetricQueryServerPort == 0 {
		cfg.MetricQueryServerPort = global.HTTPListenPort
	}
	if cfg.MetricCollectionInterval == 0 {
		cfg.MetricCollectionInterval = time.Duration(15 * time.Second)
	}
}
