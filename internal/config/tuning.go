// Package config loads mainTuning — the operator's runtime-observable
// tuning parameters — from a ConfigMap-mounted YAML file, and hot-reloads
// it without a process restart.
package config

import "time"

// Tuning mirrors mainTuning from the engine's external interfaces: the
// set of knobs loaded at startup from a ConfigMap and observable at
// runtime.
type Tuning struct {
	// InitialShortDelay is used for the first status-updater tick after a
	// domain is adopted.
	InitialShortDelay time.Duration `yaml:"initialShortDelay" validate:"required"`

	// StatusUpdateTimeoutSeconds bounds a single status-read fiber.
	StatusUpdateTimeoutSeconds time.Duration `yaml:"statusUpdateTimeoutSeconds" validate:"required"`

	// StatusUpdateSteadyDelay is the steady-state interval between status ticks.
	StatusUpdateSteadyDelay time.Duration `yaml:"statusUpdateSteadyDelay" validate:"required"`

	// DomainPresenceFailureRetrySeconds is the delay before a retried make-right run.
	DomainPresenceFailureRetrySeconds time.Duration `yaml:"domainPresenceFailureRetrySeconds" validate:"required"`

	// DomainPresenceFailureRetryMaxCount is maxFailureRetries: the number of
	// consecutive make-right throwables tolerated before retries stop until
	// a spec change is observed.
	DomainPresenceFailureRetryMaxCount int `yaml:"domainPresenceFailureRetryMaxCount" validate:"min=0"`

	// MaxDynamicClusterSize bounds the server index suffix for dynamic clusters.
	MaxDynamicClusterSize int `yaml:"maxDynamicClusterSize" validate:"min=1"`

	// OnlineUpdateCompatibleFields is the explicit whitelist of Domain spec
	// dot-paths that may change alongside introspectVersion without forcing
	// onlineUpdate.enabled to false.
	OnlineUpdateCompatibleFields []string `yaml:"onlineUpdateCompatibleFields"`

	// LogLevel is the zap level name used by internal/logging.
	LogLevel string `yaml:"logLevel"`
}

// DefaultTuning returns the operator's built-in defaults, used when no
// tuning ConfigMap is mounted or a field is left unset in it.
func DefaultTuning() Tuning {
	return Tuning{
		InitialShortDelay:                  2 * time.Second,
		StatusUpdateTimeoutSeconds:         15 * time.Second,
		StatusUpdateSteadyDelay:            10 * time.Second,
		DomainPresenceFailureRetrySeconds:  10 * time.Second,
		DomainPresenceFailureRetryMaxCount: 5,
		MaxDynamicClusterSize:              20,
		OnlineUpdateCompatibleFields: []string{
			"spec.introspectVersion",
			"spec.configuration.model.onlineUpdate.enabled",
		},
		LogLevel: "info",
	}
}

// IsOnlineUpdateCompatible reports whether path is in the whitelist.
func (t Tuning) IsOnlineUpdateCompatible(path string) bool {
	for _, p := range t.OnlineUpdateCompatibleFields {
		if p == path {
			return true
		}
	}
	return false
}
