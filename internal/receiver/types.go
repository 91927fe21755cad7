package receiver

import (
	"context"
	"net/http"
	"sync"
	"time"

	metricGlb "gelfgate/internal/metrics"
	"gelfgate/internal/receiver/metrics"
	"gelfgate/internal/receiver/shared"
)

type JSONConfig struct {
	Network struct {
		Port int `json:"port"`
	} `json:"network"`
	Outputs struct {
		FilePath     string `json:"filePath,omitempty"`
		BeatsAddress string `json:"beatsAddress,omitempty"`
	} `json:"outputs"`
	Pipeline struct {
		Listeners       int `json:"listeners,omitempty"`
		Processors      int `json:"processors,omitempty"`
		ProcQueueSize   int `json:"procQueueSize,omitempty"`
		OutputQueueSize int `json:"outputQueueSize,omitempty"`
		StoreShards     int `json:"storeShards,omitempty"`
	} `json:"pipeline"`
	Reassembly struct {
		SweepInterval string `json:"sweepInterval,omitempty"`
		ChunkLifetime string `json:"chunkLifetime,omitempty"`
	} `json:"reassembly"`
	Metrics struct {
		Interval          string `json:"collectionInterval,omitempty"`
		MaxAge            string `json:"maximumRetention,omitempty"`
		EnableQueryServer bool   `json:"enableHTTPQueryServer"`
		QueryServerPort   int    `json:"queryServerPort,omitempty"`
	} `json:"metrics"`
}

type Config struct {
	// Basic settings
	ListenPort int

	// Pipeline sizing
	Listeners       int
	Processors      int
	ProcQueueSize   int
	OutputQueueSize int
	StoreShards     int

	// Reassembly timing
	SweepInterval time.Duration
	ChunkLifetime time.Duration

	// Outputs
	OutputFilePath string
	BeatsEndpoint  string

	// Metrics
	MetricQueryServerEnabled bool
	MetricQueryServerPort    int
	MetricCollectionInterval time.Duration
	MetricMaxAge             time.Duration
}

type Daemon struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	wg sync.WaitGroup

	Mgrs               shared.Managers
	metricsCollector   *metrics.Gatherer
	MetricServer       *http.Server
	MetricDataSearcher func(name string, namespacePrefix []string, start, end time.Time) []metricGlb.Metric
	MetricDiscoverer   func(name, description string, namespacePrefix []string, unit string, metricType metricGlb.MetricType) []metricGlb.Metric
}
