package delos

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names for configuration. Per-service overrides
// follow the pattern DELOS_<SERVICE>_HOST and DELOS_<SERVICE>_PORT, e.g.
// DELOS_RUNTIME_HOST and DELOS_RUNTIME_PORT.
const (
	// EnvHost is the default host for all services.
	EnvHost = "DELOS_HOST"
	// EnvAPIKey is the API key for authentication.
	EnvAPIKey = "DELOS_API_KEY"
	// EnvTimeout is the request timeout in seconds (float accepted).
	EnvTimeout = "DELOS_TIMEOUT"
	// EnvConnectTimeout is the connect timeout in seconds (float accepted).
	EnvConnectTimeout = "DELOS_CONNECT_TIMEOUT"
	// EnvUseTLS enables TLS for all services ("true" or "1").
	EnvUseTLS = "DELOS_USE_TLS"
)

// NewFromEnv creates a new client using environment variables for
// configuration. Explicit options are applied after the environment-derived
// ones, so they take precedence.
//
// Example:
//
//	client, err := delos.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
func NewFromEnv(opts ...ConfigOption) (*Client, error) {
	envOpts, err := envOptions()
	if err != nil {
		return nil, err
	}
	return New(append(envOpts, opts...)...)
}

// envOptions collects config options from DELOS_* environment variables.
func envOptions() ([]ConfigOption, error) {
	var opts []ConfigOption

	if host := os.Getenv(EnvHost); host != "" {
		opts = append(opts, WithHost(host))
	}

	for _, name := range serviceNames {
		prefix := "DELOS_" + strings.ToUpper(name)

		var ep ServiceEndpoint
		overridden := false

		if host := os.Getenv(prefix + "_HOST"); host != "" {
			ep.Host = host
			overridden = true
		}
		if port := os.Getenv(prefix + "_PORT"); port != "" {
			p, err := strconv.Atoi(port)
			if err != nil {
				return nil, fmt.Errorf("delos: invalid %s_PORT %q: %w", prefix, port, err)
			}
			ep.Port = p
			overridden = true
		}
		if overridden {
			// Unset fields stay zero and pick up defaults later.
			opts = append(opts, WithEndpoint(name, ep))
		}
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		opts = append(opts, WithAPIKey(key))
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return nil, fmt.Errorf("delos: invalid %s %q: %w", EnvTimeout, v, err)
		}
		opts = append(opts, WithTimeout(d))
	}

	if v := os.Getenv(EnvConnectTimeout); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return nil, fmt.Errorf("delos: invalid %s %q: %w", EnvConnectTimeout, v, err)
		}
		opts = append(opts, WithConnectTimeout(d))
	}

	if v := strings.ToLower(os.Getenv(EnvUseTLS)); v == "true" || v == "1" {
		opts = append(opts, WithTLS(true))
	}

	return opts, nil
}

// parseSeconds converts a decimal seconds string into a duration.
func parseSeconds(s string) (time.Duration, error) {
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(sec * float64(time.Second)), nil
}
