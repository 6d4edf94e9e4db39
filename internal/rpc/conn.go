// Package rpc manages the gRPC plumbing shared by the Delos service
// clients: one lazily dialed connection per service, the JSON wire codec,
// and unary/stream call helpers that apply deadlines and auth metadata.
package rpc

import (
	"context"
	"crypto/tls"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// apiKeyHeader is the metadata key carrying the API key.
const apiKeyHeader = "x-api-key"

// Options configures a Conn.
type Options struct {
	// Target is the dial target, typically "host:port".
	Target string

	// UseTLS selects TLS transport credentials instead of plaintext.
	UseTLS bool

	// APIKey, when non-empty, is attached to every call as x-api-key
	// metadata.
	APIKey string

	// Timeout bounds each unary call. A caller context with an earlier
	// deadline takes precedence.
	Timeout time.Duration

	// ConnectTimeout bounds Probe when its context carries no earlier
	// deadline.
	ConnectTimeout time.Duration

	// DialOptions are appended after the defaults. Tests use this to
	// inject in-process dialers.
	DialOptions []grpc.DialOption
}

// Conn manages one lazily dialed gRPC client connection. The first call
// creates the underlying handle; Close releases it and resets the Conn so
// a later call dials again. All methods are safe for concurrent use.
type Conn struct {
	opts Options

	mu sync.Mutex
	cc *grpc.ClientConn
}

// NewConn returns an undialed Conn. No network activity happens until the
// first call.
func NewConn(opts Options) *Conn {
	return &Conn{opts: opts}
}

// Target returns the configured dial target.
func (c *Conn) Target() string {
	return c.opts.Target
}

// handle returns the client connection, dialing it on first use.
func (c *Conn) handle() (*grpc.ClientConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cc != nil {
		return c.cc, nil
	}

	creds := insecure.NewCredentials()
	if c.opts.UseTLS {
		creds = credentials.NewTLS(&tls.Config{})
	}

	dialOpts := make([]grpc.DialOption, 0, 1+len(c.opts.DialOptions))
	dialOpts = append(dialOpts, grpc.WithTransportCredentials(creds))
	dialOpts = append(dialOpts, c.opts.DialOptions...)

	cc, err := grpc.NewClient(c.opts.Target, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.cc = cc
	return cc, nil
}

// callContext attaches auth metadata and, for unary calls, the default
// timeout when the caller has not set an earlier deadline.
func (c *Conn) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.APIKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, apiKeyHeader, c.opts.APIKey)
	}
	if c.opts.Timeout > 0 {
		return context.WithTimeout(ctx, c.opts.Timeout)
	}
	return ctx, func() {}
}

// Invoke performs one unary call. method is the full method name
// ("/service/Method"); req and resp are wire structs handled by the JSON
// codec.
func (c *Conn) Invoke(ctx context.Context, method string, req, resp any) error {
	cc, err := c.handle()
	if err != nil {
		return err
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	return cc.Invoke(ctx, method, req, resp, grpc.ForceCodec(jsonCodec{}))
}

// Stream is one server-streaming call. It is forward-only: Recv until the
// stream reports io.EOF or an error, then Close. Close aborts an unfinished
// stream and releases its context; closing twice is a no-op.
type Stream struct {
	cs     grpc.ClientStream
	cancel context.CancelFunc
}

// Recv decodes the next streamed message into m.
func (s *Stream) Recv(m any) error {
	return s.cs.RecvMsg(m)
}

// Close releases the stream.
func (s *Stream) Close() error {
	s.cancel()
	return nil
}

// OpenStream starts a server-streaming call, sends the single request, and
// half-closes the send side. The stream lives until its Close is called or
// the given context ends.
func (c *Conn) OpenStream(ctx context.Context, method string, req any) (*Stream, error) {
	cc, err := c.handle()
	if err != nil {
		return nil, err
	}

	if c.opts.APIKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, apiKeyHeader, c.opts.APIKey)
	}
	ctx, cancel := context.WithCancel(ctx)

	desc := &grpc.StreamDesc{
		StreamName:    method[strings.LastIndexByte(method, '/')+1:],
		ServerStreams: true,
	}
	cs, err := cc.NewStream(ctx, desc, method, grpc.ForceCodec(jsonCodec{}))
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cs.SendMsg(req); err != nil {
		cancel()
		return nil, err
	}
	if err := cs.CloseSend(); err != nil {
		cancel()
		return nil, err
	}

	return &Stream{cs: cs, cancel: cancel}, nil
}

// Probe reports whether the endpoint reaches the Ready connectivity state
// before ctx expires. When ctx has no deadline the configured connect
// timeout bounds the wait. All failures, including dial errors, report
// false.
func (c *Conn) Probe(ctx context.Context) bool {
	cc, err := c.handle()
	if err != nil {
		return false
	}

	if _, ok := ctx.Deadline(); !ok && c.opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.ConnectTimeout)
		defer cancel()
	}

	cc.Connect()
	for {
		state := cc.GetState()
		switch state {
		case connectivity.Ready:
			return true
		case connectivity.Shutdown:
			return false
		}
		if !cc.WaitForStateChange(ctx, state) {
			// Context expired before the state moved.
			return false
		}
	}
}

// Close releases the underlying connection and resets the Conn so the next
// call dials again. Closing an undialed or already closed Conn is a no-op.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cc == nil {
		return nil
	}
	err := c.cc.Close()
	c.cc = nil
	return err
}
