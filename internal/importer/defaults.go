package importer

import "time"

const (
	defaultDrainSize     = 64
	defaultPollInterval  = 200 * time.Millisecond
	defaultFlushSize     = 64
	defaultFlushInterval = time.Second
	defaultFlushRPS      = 20
	defaultMaxRetries    = 3
	defaultRetryDelay    = 500 * time.Millisecond
	// defaultFailedCacheSize bounds the hashes remembered after a failed import.
	defaultFailedCacheSize = 4096
)
