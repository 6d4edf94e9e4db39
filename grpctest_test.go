package delos

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/instantcocoa/delos-go/internal/rpc"
	"github.com/instantcocoa/delos-go/internal/wire"
)

// Test fixtures for the sub-clients: an in-process gRPC server on a
// bufconn listener, speaking the same JSON codec as production, plus
// hand-built service descriptors whose handlers are swappable per test.

const bufSize = 1 << 20

// newBufConn starts a gRPC server with the given services registered and
// returns a Conn dialed into it through an in-memory pipe. The server and
// connection are torn down when the test finishes.
func newBufConn(t *testing.T, register func(*grpc.Server)) *rpc.Conn {
	t.Helper()

	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	register(srv)

	go func() {
		if err := srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
			t.Errorf("serve: %v", err)
		}
	}()

	conn := rpc.NewConn(rpc.Options{
		Target: "passthrough:///bufnet",
		DialOptions: []grpc.DialOption{
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
		},
	})

	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
		lis.Close()
	})
	return conn
}

// newTestSubClient builds the shared sub-client plumbing against a test
// connection.
func newTestSubClient(t *testing.T, name, wireName string, conn *rpc.Conn) serviceClient {
	t.Helper()

	svc, ok := wire.Lookup(wireName)
	if !ok {
		t.Fatalf("no wire support registered for %s", wireName)
	}
	return serviceClient{name: name, svc: svc, conn: conn, log: NopLogger{}}
}

// unary builds a MethodDesc that decodes the request into Req and hands
// it to fn. Methods a test leaves unset answer Unimplemented.
func unary[Req any](name string, fn func(context.Context, *Req) (any, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(_ any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
			if fn == nil {
				return nil, status.Error(codes.Unimplemented, name)
			}
			req := new(Req)
			if err := dec(req); err != nil {
				return nil, err
			}
			return fn(ctx, req)
		},
	}
}

// anyService adapts a ServiceDesc so RegisterService accepts any
// implementation value.
var anyService = (*any)(nil)
