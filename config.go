package delos

import (
	"fmt"
	"time"
)

// ============================================================================
// Service Names and Defaults
// ============================================================================

// Service names used as Endpoints keys, WithEndpoint arguments, and
// HealthCheck result keys.
const (
	ServiceObserve  = "observe"
	ServiceRuntime  = "runtime"
	ServicePrompt   = "prompt"
	ServiceDatasets = "datasets"
	ServiceEval     = "eval"
	ServiceDeploy   = "deploy"
)

// serviceNames lists every service in its canonical order.
var serviceNames = []string{
	ServiceObserve,
	ServiceRuntime,
	ServicePrompt,
	ServiceDatasets,
	ServiceEval,
	ServiceDeploy,
}

// defaultPorts maps each service to its default port.
var defaultPorts = map[string]int{
	ServiceObserve:  9000,
	ServiceRuntime:  9001,
	ServicePrompt:   9002,
	ServiceDatasets: 9003,
	ServiceEval:     9004,
	ServiceDeploy:   9005,
}

// Default configuration values.
const (
	// DefaultHost is the host used for endpoints that do not set one.
	DefaultHost = "localhost"

	// DefaultTimeout is the default per-call request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultConnectTimeout is the default readiness-wait timeout.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultTemperature is the sampling temperature used when a
	// completion or prompt does not set one.
	DefaultTemperature = 0.7

	// DefaultMaxTokens is the completion token cap used when a
	// completion or prompt does not set one.
	DefaultMaxTokens = 1024

	// DefaultTopP is the nucleus sampling value used when a completion
	// does not set one.
	DefaultTopP = 1.0

	// DefaultLimit is the page size used when a list call does not set one.
	DefaultLimit = 100
)

// ============================================================================
// Endpoint and Config
// ============================================================================

// ServiceEndpoint locates a single Delos service.
type ServiceEndpoint struct {
	// Host is the endpoint host. Defaults to the config host.
	Host string

	// Port is the endpoint port. Defaults to the service's standard port.
	Port int

	// UseTLS enables TLS for this endpoint.
	UseTLS bool
}

// Address returns the dial target in host:port form.
func (e ServiceEndpoint) Address() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// Config holds the configuration for the Delos client.
type Config struct {
	// Host is the default host applied to endpoints that do not set one.
	// Defaults to "localhost".
	Host string

	// Endpoints maps service names (ServiceObserve, ServiceRuntime, ...)
	// to their endpoints. Missing entries are filled with defaults.
	Endpoints map[string]ServiceEndpoint

	// APIKey is sent as x-api-key metadata on every call when set.
	APIKey string

	// Timeout is the per-call request timeout.
	// Defaults to 30 seconds if not set.
	Timeout time.Duration

	// ConnectTimeout bounds connection readiness waits.
	// Defaults to 10 seconds if not set.
	ConnectTimeout time.Duration

	// UseTLS enables TLS for every endpoint.
	UseTLS bool

	// Logger is used for SDK logging (printf-style).
	// For structured logging, use StructuredLogger instead.
	Logger Logger

	// StructuredLogger is used for structured SDK logging.
	// If set, this takes precedence over Logger.
	StructuredLogger StructuredLogger
}

// String returns a string representation of the config with masked
// credentials. This is safe to use in logs and debug output.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Host: %q, APIKey: %q, Timeout: %v, ConnectTimeout: %v, UseTLS: %t}",
		c.Host,
		MaskCredential(c.APIKey),
		c.Timeout,
		c.ConnectTimeout,
		c.UseTLS,
	)
}

// applyDefaults sets default values for unset configuration options.
func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}

	if c.Endpoints == nil {
		c.Endpoints = make(map[string]ServiceEndpoint, len(serviceNames))
	}

	for _, name := range serviceNames {
		ep := c.Endpoints[name]
		if ep.Host == "" {
			ep.Host = c.Host
		}
		if ep.Port == 0 {
			ep.Port = defaultPorts[name]
		}
		if c.UseTLS {
			ep.UseTLS = true
		}
		c.Endpoints[name] = ep
	}
}

// validate checks that the configuration is valid.
func (c *Config) validate() error {
	for name, ep := range c.Endpoints {
		if _, ok := defaultPorts[name]; !ok {
			return fmt.Errorf("delos: unknown service %q in endpoints", name)
		}
		if ep.Host == "" {
			return fmt.Errorf("delos: %s endpoint host is empty", name)
		}
		if ep.Port < 1 || ep.Port > 65535 {
			return fmt.Errorf("delos: %s endpoint port %d is out of range", name, ep.Port)
		}
	}

	if c.Timeout < 0 {
		return fmt.Errorf("delos: timeout cannot be negative")
	}
	if c.ConnectTimeout < 0 {
		return fmt.Errorf("delos: connect timeout cannot be negative")
	}

	return nil
}

// endpointFor returns the endpoint for a service. Call after applyDefaults;
// every known service has an entry then.
func (c *Config) endpointFor(service string) ServiceEndpoint {
	return c.Endpoints[service]
}

// logger resolves the configured logger, preferring the structured one.
func (c *Config) logger() StructuredLogger {
	if c.StructuredLogger != nil {
		return c.StructuredLogger
	}
	if c.Logger != nil {
		return WrapPrintfLogger(c.Logger)
	}
	return NopLogger{}
}

// ============================================================================
// Functional Options
// ============================================================================

// ConfigOption is a function that modifies a Config.
type ConfigOption func(*Config)

// WithHost sets the default host for all service endpoints.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithEndpoint overrides the endpoint for one service.
//
// Example:
//
//	client, _ := delos.New(
//	    delos.WithEndpoint(delos.ServiceRuntime, delos.ServiceEndpoint{
//	        Host: "runtime.internal",
//	        Port: 443,
//	        UseTLS: true,
//	    }),
//	)
func WithEndpoint(service string, ep ServiceEndpoint) ConfigOption {
	return func(c *Config) {
		if c.Endpoints == nil {
			c.Endpoints = make(map[string]ServiceEndpoint)
		}
		c.Endpoints[service] = ep
	}
}

// WithAPIKey sets the API key attached to every call.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithTimeout sets the per-call request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithConnectTimeout sets the connection readiness timeout.
func WithConnectTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.ConnectTimeout = timeout
	}
}

// WithTLS enables or disables TLS for every endpoint.
func WithTLS(useTLS bool) ConfigOption {
	return func(c *Config) {
		c.UseTLS = useTLS
	}
}

// WithLogger sets a printf-style logger.
func WithLogger(logger Logger) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithStructuredLogger sets a structured logger.
// This takes precedence over a logger set via WithLogger.
func WithStructuredLogger(logger StructuredLogger) ConfigOption {
	return func(c *Config) {
		c.StructuredLogger = logger
	}
}
