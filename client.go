package delos

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/instantcocoa/delos-go/internal/rpc"
	"github.com/instantcocoa/delos-go/internal/wire"
)

// healthProbeTimeout bounds each endpoint probe during HealthCheck.
const healthProbeTimeout = 2 * time.Second

// ============================================================================
// Shared Sub-Client Plumbing
// ============================================================================

// serviceClient carries the plumbing every sub-client shares: the wire
// descriptor, the connection to the service, and the logger.
type serviceClient struct {
	name string // short service name, e.g. "prompt"
	svc  wire.Service
	conn *rpc.Conn
	log  StructuredLogger
}

// newServiceClient resolves wire support for a service and builds its
// connection from the configured endpoint. Missing wire support fails
// here, before any connection is attempted.
func newServiceClient(cfg *Config, name, wireName string) (serviceClient, error) {
	svc, ok := wire.Lookup(wireName)
	if !ok {
		return serviceClient{}, &RegistrationError{Service: wireName}
	}

	ep := cfg.endpointFor(name)
	conn := rpc.NewConn(rpc.Options{
		Target:         ep.Address(),
		UseTLS:         ep.UseTLS,
		APIKey:         cfg.APIKey,
		Timeout:        cfg.Timeout,
		ConnectTimeout: cfg.ConnectTimeout,
	})
	return serviceClient{name: name, svc: svc, conn: conn, log: cfg.logger()}, nil
}

// invoke performs one unary call, wrapping transport errors with service
// and method context. Failures are returned to the caller, so they are
// logged at debug level only.
func (s *serviceClient) invoke(ctx context.Context, method string, req, resp any) error {
	if err := s.conn.Invoke(ctx, s.svc.FullMethod(method), req, resp); err != nil {
		err = wrapRPC(s.name, method, err)
		s.log.Debug("rpc failed", "service", s.name, "method", method, "error", err)
		return err
	}
	return nil
}

// openStream starts a server-streaming call on the service.
func (s *serviceClient) openStream(ctx context.Context, method string, req any) (*rpc.Stream, error) {
	stream, err := s.conn.OpenStream(ctx, s.svc.FullMethod(method), req)
	if err != nil {
		err = wrapRPC(s.name, method, err)
		s.log.Debug("stream open failed", "service", s.name, "method", method, "error", err)
		return nil, err
	}
	return stream, nil
}

// close releases the service connection.
func (s *serviceClient) close() error {
	s.log.Debug("closing connection", "service", s.name, "target", s.conn.Target())
	return s.conn.Close()
}

// ============================================================================
// Client
// ============================================================================

// Client is the entry point to the Delos platform. It hands out one
// sub-client per service, each constructed lazily on first access and
// holding its own connection.
type Client struct {
	config *Config

	mu       sync.Mutex
	observe  *ObserveClient
	runtime  *RuntimeClient
	prompts  *PromptsClient
	datasets *DatasetsClient
	eval     *EvalClient
	deploy   *DeployClient
}

// New creates a Delos client.
func New(opts ...ConfigOption) (*Client, error) {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Delos client from a Config struct. This is
// useful when the configuration comes from a file rather than code. A nil
// config selects the defaults.
//
// Example:
//
//	client, err := delos.NewWithConfig(&delos.Config{
//	    Host:   "delos.internal",
//	    APIKey: os.Getenv("DELOS_API_KEY"),
//	})
func NewWithConfig(cfg *Config) (*Client, error) {
	cfgCopy := Config{}
	if cfg != nil {
		cfgCopy = *cfg
	}

	cfgCopy.applyDefaults()
	if err := cfgCopy.validate(); err != nil {
		return nil, err
	}
	return &Client{config: &cfgCopy}, nil
}

// Config returns a copy of the client's resolved configuration.
func (c *Client) Config() Config {
	return *c.config
}

// Observe returns the observability sub-client, constructing it on first
// access.
func (c *Client) Observe() (*ObserveClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.observe == nil {
		sc, err := newObserveClient(c.config)
		if err != nil {
			return nil, err
		}
		c.observe = sc
	}
	return c.observe, nil
}

// Runtime returns the completion runtime sub-client, constructing it on
// first access.
func (c *Client) Runtime() (*RuntimeClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.runtime == nil {
		sc, err := newRuntimeClient(c.config)
		if err != nil {
			return nil, err
		}
		c.runtime = sc
	}
	return c.runtime, nil
}

// Prompts returns the prompt management sub-client, constructing it on
// first access.
func (c *Client) Prompts() (*PromptsClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.prompts == nil {
		sc, err := newPromptsClient(c.config)
		if err != nil {
			return nil, err
		}
		c.prompts = sc
	}
	return c.prompts, nil
}

// Datasets returns the dataset management sub-client, constructing it on
// first access.
func (c *Client) Datasets() (*DatasetsClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.datasets == nil {
		sc, err := newDatasetsClient(c.config)
		if err != nil {
			return nil, err
		}
		c.datasets = sc
	}
	return c.datasets, nil
}

// Eval returns the evaluation sub-client, constructing it on first
// access.
func (c *Client) Eval() (*EvalClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eval == nil {
		sc, err := newEvalClient(c.config)
		if err != nil {
			return nil, err
		}
		c.eval = sc
	}
	return c.eval, nil
}

// Deploy returns the deployment sub-client, constructing it on first
// access.
func (c *Client) Deploy() (*DeployClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deploy == nil {
		sc, err := newDeployClient(c.config)
		if err != nil {
			return nil, err
		}
		c.deploy = sc
	}
	return c.deploy, nil
}

// constructedLocked returns the plumbing of every sub-client built so
// far. Callers must hold c.mu.
func (c *Client) constructedLocked() []*serviceClient {
	var out []*serviceClient
	if c.observe != nil {
		out = append(out, &c.observe.serviceClient)
	}
	if c.runtime != nil {
		out = append(out, &c.runtime.serviceClient)
	}
	if c.prompts != nil {
		out = append(out, &c.prompts.serviceClient)
	}
	if c.datasets != nil {
		out = append(out, &c.datasets.serviceClient)
	}
	if c.eval != nil {
		out = append(out, &c.eval.serviceClient)
	}
	if c.deploy != nil {
		out = append(out, &c.deploy.serviceClient)
	}
	return out
}

// Close closes every constructed sub-client and resets the facade, so a
// later accessor call reconstructs its sub-client and dials again.
// Closing an unused or already closed client is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, sc := range c.constructedLocked() {
		if err := sc.close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.observe = nil
	c.runtime = nil
	c.prompts = nil
	c.datasets = nil
	c.eval = nil
	c.deploy = nil
	return errors.Join(errs...)
}

// HealthCheck probes every configured service endpoint concurrently and
// reports which are ready, keyed by service name. Each probe waits at
// most two seconds; every failure, including sub-client construction
// failures, reports false instead of an error.
func (c *Client) HealthCheck(ctx context.Context) map[string]bool {
	results := make(map[string]bool, len(serviceNames))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, name := range serviceNames {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			ready := c.probeService(ctx, name)
			mu.Lock()
			results[name] = ready
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	return results
}

// probeService resolves one service's connection and probes it with the
// health check bound.
func (c *Client) probeService(ctx context.Context, name string) bool {
	conn, err := c.connFor(name)
	if err != nil {
		c.config.logger().Debug("health probe skipped", "service", name, "error", err)
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()
	return conn.Probe(probeCtx)
}

// connFor returns the connection for a service, constructing the
// sub-client on first use.
func (c *Client) connFor(name string) (*rpc.Conn, error) {
	switch name {
	case ServiceObserve:
		sc, err := c.Observe()
		if err != nil {
			return nil, err
		}
		return sc.conn, nil
	case ServiceRuntime:
		sc, err := c.Runtime()
		if err != nil {
			return nil, err
		}
		return sc.conn, nil
	case ServicePrompt:
		sc, err := c.Prompts()
		if err != nil {
			return nil, err
		}
		return sc.conn, nil
	case ServiceDatasets:
		sc, err := c.Datasets()
		if err != nil {
			return nil, err
		}
		return sc.conn, nil
	case ServiceEval:
		sc, err := c.Eval()
		if err != nil {
			return nil, err
		}
		return sc.conn, nil
	case ServiceDeploy:
		sc, err := c.Deploy()
		if err != nil {
			return nil, err
		}
		return sc.conn, nil
	}
	return nil, &RegistrationError{Service: name}
}
