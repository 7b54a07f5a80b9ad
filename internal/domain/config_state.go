package domain

// ConfigState is either Ready or ConfigurationFailed.
type ConfigState interface {
	isConfigState()
}

type Ready struct{}

type ConfigurationFailed struct {
	Message string
}

func (Ready) isConfigState()               {}
func (ConfigurationFailed) isConfigState() {}
