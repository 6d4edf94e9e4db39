// Package delos provides a Go SDK for the Delos prompt engineering
// platform.
//
// Delos manages the full life of a prompt: tracing the calls that use it,
// versioning its template, evaluating candidate versions against datasets,
// and deploying a winner behind quality gates. Each concern is served by
// its own gRPC service, and this SDK exposes one sub-client per service
// behind a single entry point.
//
// # Quick Start
//
// Create a client and talk to a service:
//
//	client, err := delos.New(
//	    delos.WithHost("delos.internal"),
//	    delos.WithAPIKey(os.Getenv("DELOS_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	prompts, err := client.Prompts()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	prompt, err := prompts.Get(ctx, "support-reply")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if prompt == nil {
//	    log.Fatal("prompt not found")
//	}
//
//	rendered, err := prompt.Render(map[string]string{"customer": "Ada"})
//
// [NewFromEnv] builds the same client from DELOS_* environment variables;
// explicit options win over the environment.
//
// # Services
//
// The platform is six services, each on its own endpoint:
//
//   - [Client.Observe]: span ingestion and trace queries
//   - [Client.Runtime]: completions, streaming completions, model discovery
//   - [Client.Prompts]: prompt and version management
//   - [Client.Datasets]: datasets and examples
//   - [Client.Eval]: evaluation runs, results, run comparison
//   - [Client.Deploy]: deployments and quality gates
//
// Sub-clients are constructed lazily on first access and each holds one
// connection, itself dialed lazily on its first call. Accessors return an
// error only when the SDK has no wire support compiled in for that
// service; network problems surface later, on the first call.
//
// # Lookups and Absence
//
// Get-style operations distinguish "absent" from "failed": when the
// service reports not-found, they return nil with a nil error. Every
// other failure is a non-nil error, usually an [*RPCError] carrying the
// gRPC status code:
//
//	trace, err := observe.GetTrace(ctx, traceID)
//	if err != nil {
//	    return err // transport failure, auth failure, timeout, ...
//	}
//	if trace == nil {
//	    return fmt.Errorf("no such trace %s", traceID)
//	}
//
// # Streaming
//
// Streaming completions are forward-only iterators:
//
//	stream, err := runtime.CompleteStream(ctx, params)
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//
//	for {
//	    chunk, err := stream.Recv()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(chunk)
//	}
//
// # Timeouts
//
// Every call respects its context. When the caller's context has no
// earlier deadline, the configured request timeout (default 30s) bounds
// each unary call. Streams are exempt from the request timeout; cancel
// their context or call Close to abandon them. The SDK never retries.
//
// # Health Checks
//
// [Client.HealthCheck] probes every configured endpoint concurrently and
// reports readiness per service. Probes are bounded to two seconds each
// and never return an error:
//
//	for service, ready := range client.HealthCheck(ctx) {
//	    fmt.Printf("%-10s %v\n", service, ready)
//	}
//
// # Thread Safety
//
// The Client and every sub-client are safe for concurrent use. A
// [CompletionStream] is not: Recv from one goroutine at a time.
package delos

// Version is the current SDK version.
const Version = "0.1.0"
