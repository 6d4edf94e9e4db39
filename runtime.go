package delos

import (
	"context"
	"errors"
	"io"

	"github.com/instantcocoa/delos-go/internal/rpc"
	"github.com/instantcocoa/delos-go/internal/wire"
)

// ============================================================================
// Completion Types
// ============================================================================

// RoutingStrategy selects how the runtime picks a provider when the
// request does not pin one.
type RoutingStrategy string

const (
	RoutingStrategyUnspecified RoutingStrategy = "unspecified"
	RoutingStrategyCost        RoutingStrategy = "cost"
	RoutingStrategyLatency     RoutingStrategy = "latency"
	RoutingStrategyQuality     RoutingStrategy = "quality"
)

// String returns the string representation of the routing strategy.
func (r RoutingStrategy) String() string { return string(r) }

// Message is one turn of a chat conversation.
type Message struct {
	Role    string
	Content string
}

// CompletionParams describes a completion request.
type CompletionParams struct {
	// Model names the model to use. Empty lets the runtime route.
	Model string

	// Messages is the conversation so far.
	Messages []Message

	// SystemPrompt is prepended as the system message when non-empty.
	SystemPrompt string

	// MaxTokens caps the completion length. Zero selects DefaultMaxTokens.
	MaxTokens int

	// Temperature is the sampling temperature. Zero selects
	// DefaultTemperature.
	Temperature float64

	// TopP is the nucleus sampling value. Zero selects DefaultTopP.
	TopP float64

	// StopSequences stop generation when emitted.
	StopSequences []string

	// Provider pins a provider by ID. Empty lets the runtime route.
	Provider string

	// RoutingStrategy guides provider selection when Provider is empty.
	RoutingStrategy RoutingStrategy

	// Metadata is attached to the request verbatim.
	Metadata map[string]string
}

// withDefaults returns a copy of p with unset sampling parameters resolved
// to the package defaults.
func (p CompletionParams) withDefaults() CompletionParams {
	if p.MaxTokens <= 0 {
		p.MaxTokens = DefaultMaxTokens
	}
	if p.Temperature == 0 {
		p.Temperature = DefaultTemperature
	}
	if p.TopP == 0 {
		p.TopP = DefaultTopP
	}
	return p
}

// Usage counts the tokens one completion consumed.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionResponse is the result of a completion request.
type CompletionResponse struct {
	ID           string
	Content      string
	Model        string
	Provider     string
	Usage        Usage
	LatencyMS    float64
	FinishReason string
	Metadata     map[string]string
}

// Model describes one model a provider serves.
type Model struct {
	ID                      string
	Name                    string
	Provider                string
	ContextWindow           int
	MaxOutputTokens         int
	SupportsVision          bool
	SupportsFunctionCalling bool
	CostPerInputToken       float64
	CostPerOutputToken      float64
}

// Provider describes one upstream model provider.
type Provider struct {
	ID          string
	Name        string
	Models      []Model
	IsAvailable bool
}

// ============================================================================
// Wire Mapping
// ============================================================================

var routingStrategyToWire = map[RoutingStrategy]wire.RoutingStrategy{
	RoutingStrategyUnspecified: wire.RoutingStrategyUnspecified,
	RoutingStrategyCost:        wire.RoutingStrategyCost,
	RoutingStrategyLatency:     wire.RoutingStrategyLatency,
	RoutingStrategyQuality:     wire.RoutingStrategyQuality,
}

var routingStrategyNames = map[wire.RoutingStrategy]RoutingStrategy{
	wire.RoutingStrategyUnspecified: RoutingStrategyUnspecified,
	wire.RoutingStrategyCost:        RoutingStrategyCost,
	wire.RoutingStrategyLatency:     RoutingStrategyLatency,
	wire.RoutingStrategyQuality:     RoutingStrategyQuality,
}

func routingStrategyFromWire(r wire.RoutingStrategy) RoutingStrategy {
	if strategy, ok := routingStrategyNames[r]; ok {
		return strategy
	}
	return RoutingStrategyUnspecified
}

func completionParamsToWire(p CompletionParams) *wire.CompletionParams {
	w := &wire.CompletionParams{
		Model:           p.Model,
		SystemPrompt:    p.SystemPrompt,
		MaxTokens:       int32(p.MaxTokens),
		Temperature:     p.Temperature,
		TopP:            p.TopP,
		StopSequences:   p.StopSequences,
		Provider:        p.Provider,
		RoutingStrategy: routingStrategyToWire[p.RoutingStrategy],
		Metadata:        p.Metadata,
	}
	for _, m := range p.Messages {
		w.Messages = append(w.Messages, &wire.Message{Role: m.Role, Content: m.Content})
	}
	return w
}

func usageFromWire(w *wire.Usage) Usage {
	if w == nil {
		return Usage{}
	}
	return Usage{
		PromptTokens:     int(w.PromptTokens),
		CompletionTokens: int(w.CompletionTokens),
		TotalTokens:      int(w.TotalTokens),
	}
}

func completionResponseFromWire(w *wire.CompleteResponse) CompletionResponse {
	return CompletionResponse{
		ID:           w.ID,
		Content:      w.Content,
		Model:        w.Model,
		Provider:     w.Provider,
		Usage:        usageFromWire(w.Usage),
		LatencyMS:    w.LatencyMS,
		FinishReason: w.FinishReason,
		Metadata:     w.Metadata,
	}
}

func modelFromWire(w *wire.Model) Model {
	return Model{
		ID:                      w.ID,
		Name:                    w.Name,
		Provider:                w.Provider,
		ContextWindow:           int(w.ContextWindow),
		MaxOutputTokens:         int(w.MaxOutputTokens),
		SupportsVision:          w.SupportsVision,
		SupportsFunctionCalling: w.SupportsFunctionCalling,
		CostPerInputToken:       w.CostPerInputToken,
		CostPerOutputToken:      w.CostPerOutputToken,
	}
}

func providerFromWire(w *wire.Provider) Provider {
	p := Provider{
		ID:          w.ID,
		Name:        w.Name,
		IsAvailable: w.IsAvailable,
	}
	for _, wm := range w.Models {
		if wm == nil {
			continue
		}
		p.Models = append(p.Models, modelFromWire(wm))
	}
	return p
}

// ============================================================================
// Runtime Client
// ============================================================================

// RuntimeClient handles completions and model discovery.
type RuntimeClient struct {
	serviceClient
}

func newRuntimeClient(cfg *Config) (*RuntimeClient, error) {
	sc, err := newServiceClient(cfg, ServiceRuntime, wire.RuntimeServiceName)
	if err != nil {
		return nil, err
	}
	return &RuntimeClient{serviceClient: sc}, nil
}

// Complete requests a completion and waits for the full response.
// Unset sampling parameters fall back to the package defaults.
func (c *RuntimeClient) Complete(ctx context.Context, params CompletionParams) (*CompletionResponse, error) {
	req := &wire.CompleteRequest{Params: completionParamsToWire(params.withDefaults())}

	var resp wire.CompleteResponse
	if err := c.invoke(ctx, "Complete", req, &resp); err != nil {
		return nil, err
	}
	result := completionResponseFromWire(&resp)
	return &result, nil
}

// CompletionStream delivers a completion as it is generated. It is
// forward-only: Recv until io.EOF, then Close. Close aborts an
// unfinished stream.
type CompletionStream struct {
	stream *rpc.Stream
}

// Recv returns the next non-empty content fragment, or io.EOF once the
// stream ends.
func (s *CompletionStream) Recv() (string, error) {
	for {
		var chunk wire.CompleteStreamResponse
		if err := s.stream.Recv(&chunk); err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", wrapRPC(ServiceRuntime, "CompleteStream", err)
		}
		if chunk.Content != "" {
			return chunk.Content, nil
		}
	}
}

// Close aborts the stream. It is safe to call after io.EOF.
func (s *CompletionStream) Close() error {
	return s.stream.Close()
}

// CompleteStream requests a streaming completion. Unset sampling
// parameters fall back to the package defaults.
func (c *RuntimeClient) CompleteStream(ctx context.Context, params CompletionParams) (*CompletionStream, error) {
	req := &wire.CompleteStreamRequest{Params: completionParamsToWire(params.withDefaults())}

	stream, err := c.openStream(ctx, "CompleteStream", req)
	if err != nil {
		return nil, err
	}
	return &CompletionStream{stream: stream}, nil
}

// ListModels returns the models the runtime can serve, optionally
// filtered to one provider.
func (c *RuntimeClient) ListModels(ctx context.Context, provider string) ([]Model, error) {
	var resp wire.ListModelsResponse
	err := c.invoke(ctx, "ListModels", &wire.ListModelsRequest{Provider: provider}, &resp)
	if err != nil {
		return nil, err
	}

	models := make([]Model, 0, len(resp.Models))
	for _, wm := range resp.Models {
		if wm == nil {
			continue
		}
		models = append(models, modelFromWire(wm))
	}
	return models, nil
}

// ListProviders returns the configured providers and their availability.
func (c *RuntimeClient) ListProviders(ctx context.Context) ([]Provider, error) {
	var resp wire.ListProvidersResponse
	err := c.invoke(ctx, "ListProviders", &wire.ListProvidersRequest{}, &resp)
	if err != nil {
		return nil, err
	}

	providers := make([]Provider, 0, len(resp.Providers))
	for _, wp := range resp.Providers {
		if wp == nil {
			continue
		}
		providers = append(providers, providerFromWire(wp))
	}
	return providers, nil
}
