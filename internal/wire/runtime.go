package wire

// RuntimeServiceName is the fully qualified name of the model runtime
// service, which routes completion requests across providers.
const RuntimeServiceName = "runtime.v1.RuntimeService"

func init() {
	register(Service{
		Name:    RuntimeServiceName,
		Methods: []string{"Complete", "CompleteStream", "ListModels", "ListProviders"},
	})
}

// RoutingStrategy mirrors runtime.v1.RoutingStrategy.
type RoutingStrategy int32

const (
	RoutingStrategyUnspecified RoutingStrategy = 0
	RoutingStrategyCost        RoutingStrategy = 1
	RoutingStrategyLatency     RoutingStrategy = 2
	RoutingStrategyQuality     RoutingStrategy = 3
)

// Message is one turn in a conversation.
type Message struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// CompletionParams carries everything the runtime needs to produce a
// completion.
type CompletionParams struct {
	Model           string            `json:"model,omitempty"`
	Messages        []*Message        `json:"messages,omitempty"`
	SystemPrompt    string            `json:"system_prompt,omitempty"`
	MaxTokens       int32             `json:"max_tokens,omitempty"`
	Temperature     float64           `json:"temperature,omitempty"`
	TopP            float64           `json:"top_p,omitempty"`
	StopSequences   []string          `json:"stop_sequences,omitempty"`
	Provider        string            `json:"provider,omitempty"`
	RoutingStrategy RoutingStrategy   `json:"routing_strategy,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Usage reports token consumption for a completion.
type Usage struct {
	PromptTokens     int32 `json:"prompt_tokens,omitempty"`
	CompletionTokens int32 `json:"completion_tokens,omitempty"`
	TotalTokens      int32 `json:"total_tokens,omitempty"`
}

type CompleteRequest struct {
	Params *CompletionParams `json:"params,omitempty"`
}

type CompleteResponse struct {
	ID           string            `json:"id,omitempty"`
	Content      string            `json:"content,omitempty"`
	Model        string            `json:"model,omitempty"`
	Provider     string            `json:"provider,omitempty"`
	Usage        *Usage            `json:"usage,omitempty"`
	LatencyMS    float64           `json:"latency_ms,omitempty"`
	FinishReason string            `json:"finish_reason,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type CompleteStreamRequest struct {
	Params *CompletionParams `json:"params,omitempty"`
}

// CompleteStreamResponse is one chunk of a streaming completion. Chunks with
// empty content carry trailing metadata only.
type CompleteStreamResponse struct {
	Content  string `json:"content,omitempty"`
	Done     bool   `json:"done,omitempty"`
	Model    string `json:"model,omitempty"`
	Provider string `json:"provider,omitempty"`
	Usage    *Usage `json:"usage,omitempty"`
}

// Model describes one model a provider exposes.
type Model struct {
	ID                      string  `json:"id,omitempty"`
	Name                    string  `json:"name,omitempty"`
	Provider                string  `json:"provider,omitempty"`
	ContextWindow           int32   `json:"context_window,omitempty"`
	MaxOutputTokens         int32   `json:"max_output_tokens,omitempty"`
	SupportsVision          bool    `json:"supports_vision,omitempty"`
	SupportsFunctionCalling bool    `json:"supports_function_calling,omitempty"`
	CostPerInputToken       float64 `json:"cost_per_input_token,omitempty"`
	CostPerOutputToken      float64 `json:"cost_per_output_token,omitempty"`
}

// Provider describes one upstream model provider.
type Provider struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Models      []*Model `json:"models,omitempty"`
	IsAvailable bool     `json:"is_available,omitempty"`
}

type ListModelsRequest struct {
	Provider string `json:"provider,omitempty"`
}

type ListModelsResponse struct {
	Models []*Model `json:"models,omitempty"`
}

type ListProvidersRequest struct{}

type ListProvidersResponse struct {
	Providers []*Provider `json:"providers,omitempty"`
}
