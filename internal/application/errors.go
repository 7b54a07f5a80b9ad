package application

// ConfigurationError is returned by every read and refresh once the service
// has been put into its degraded state by a configuration problem.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Message }
