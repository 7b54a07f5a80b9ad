package config

import "time"

const (
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
	// RefreshJobID names the recurring refresh job and its lock key.
	RefreshJobID = "getrates"
)
