package bitcoin

import "time"

const (
	defaultPollInterval   = 10 * time.Second
	defaultMaxBatch       = 128
	defaultFetchWorkers   = 4
	defaultBackoffInitial = 100 * time.Millisecond
	defaultBackoffMax     = 5 * time.Second
)
