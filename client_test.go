package delos

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
)

func TestNewClient(t *testing.T) {
	client, err := New(
		WithHost("delos.internal"),
		WithAPIKey("sk-delos-test-key"),
		WithTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer client.Close()

	cfg := client.Config()
	if cfg.Host != "delos.internal" {
		t.Errorf("Host = %v, want delos.internal", cfg.Host)
	}
	if cfg.APIKey != "sk-delos-test-key" {
		t.Errorf("APIKey = %v, want sk-delos-test-key", cfg.APIKey)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout = %v, want %v", cfg.ConnectTimeout, DefaultConnectTimeout)
	}

	for _, name := range serviceNames {
		ep, ok := cfg.Endpoints[name]
		if !ok {
			t.Errorf("endpoint for %q not filled in", name)
			continue
		}
		if ep.Host != "delos.internal" {
			t.Errorf("endpoint %q host = %v, want delos.internal", name, ep.Host)
		}
		if ep.Port != defaultPorts[name] {
			t.Errorf("endpoint %q port = %v, want %v", name, ep.Port, defaultPorts[name])
		}
	}
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []ConfigOption
	}{
		{
			name: "unknown service endpoint",
			opts: []ConfigOption{WithEndpoint("billing", ServiceEndpoint{Host: "h", Port: 9000})},
		},
		{
			name: "port out of range",
			opts: []ConfigOption{WithEndpoint(ServicePrompt, ServiceEndpoint{Host: "h", Port: 70000})},
		},
		{
			name: "negative timeout",
			opts: []ConfigOption{WithTimeout(-1 * time.Second)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts...); err == nil {
				t.Error("New() should have failed")
			}
		})
	}
}

func TestNewWithConfigNil(t *testing.T) {
	client, err := NewWithConfig(nil)
	if err != nil {
		t.Fatalf("NewWithConfig(nil) failed: %v", err)
	}
	defer client.Close()

	cfg := client.Config()
	if cfg.Host != DefaultHost {
		t.Errorf("Host = %v, want %v", cfg.Host, DefaultHost)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
}

func TestClientConfigIsCopy(t *testing.T) {
	client, err := New(WithHost("delos.internal"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer client.Close()

	cfg := client.Config()
	cfg.Host = "mutated"

	if got := client.Config().Host; got != "delos.internal" {
		t.Errorf("Host after mutating copy = %v, want delos.internal", got)
	}
}

func TestClientSubClients(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer client.Close()

	observe, err := client.Observe()
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if observe == nil {
		t.Fatal("Observe() should not be nil")
	}
	again, err := client.Observe()
	if err != nil {
		t.Fatalf("second Observe failed: %v", err)
	}
	if again != observe {
		t.Error("Observe() should return the same instance on repeated access")
	}

	if sc, err := client.Runtime(); err != nil || sc == nil {
		t.Errorf("Runtime() = %v, %v", sc, err)
	}
	if sc, err := client.Prompts(); err != nil || sc == nil {
		t.Errorf("Prompts() = %v, %v", sc, err)
	}
	if sc, err := client.Datasets(); err != nil || sc == nil {
		t.Errorf("Datasets() = %v, %v", sc, err)
	}
	if sc, err := client.Eval(); err != nil || sc == nil {
		t.Errorf("Eval() = %v, %v", sc, err)
	}
	if sc, err := client.Deploy(); err != nil || sc == nil {
		t.Errorf("Deploy() = %v, %v", sc, err)
	}
}

func TestClientClose(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	prompts, err := client.Prompts()
	if err != nil {
		t.Fatalf("Prompts failed: %v", err)
	}
	if _, err := client.Eval(); err != nil {
		t.Fatalf("Eval failed: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Closing again with nothing constructed is a no-op.
	if err := client.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// The facade reconstructs sub-clients after a close.
	reopened, err := client.Prompts()
	if err != nil {
		t.Fatalf("Prompts after Close failed: %v", err)
	}
	if reopened == prompts {
		t.Error("Prompts() after Close should return a fresh instance")
	}
	if err := client.Close(); err != nil {
		t.Errorf("final Close failed: %v", err)
	}
}

func TestClientCloseUnused(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close of unused client failed: %v", err)
	}
}

func TestClientHealthCheckUnreachable(t *testing.T) {
	// Grab a port nothing is listening on.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	port := lis.Addr().(*net.TCPAddr).Port
	lis.Close()

	opts := []ConfigOption{WithHost("127.0.0.1")}
	for _, name := range serviceNames {
		opts = append(opts, WithEndpoint(name, ServiceEndpoint{Host: "127.0.0.1", Port: port}))
	}
	client, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	results := client.HealthCheck(ctx)
	if len(results) != len(serviceNames) {
		t.Fatalf("HealthCheck returned %d results, want %d", len(results), len(serviceNames))
	}
	for name, ready := range results {
		if ready {
			t.Errorf("service %q reported ready with no server listening", name)
		}
	}
}

func TestClientHealthCheckReady(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	srv := grpc.NewServer()
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	port := lis.Addr().(*net.TCPAddr).Port
	opts := []ConfigOption{WithHost("127.0.0.1")}
	for _, name := range serviceNames {
		opts = append(opts, WithEndpoint(name, ServiceEndpoint{Host: "127.0.0.1", Port: port}))
	}
	client, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer client.Close()

	results := client.HealthCheck(context.Background())
	for name, ready := range results {
		if !ready {
			t.Errorf("service %q reported unready with a server listening", name)
		}
	}
}
