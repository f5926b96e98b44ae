package chain

import "time"

const (
	defaultCacheSize    = 4096
	defaultMissCacheTTL = 10 * time.Second
	defaultMissCacheCap = 1024
	defaultQueryTimeout = 2 * time.Second
)
