package delos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/instantcocoa/delos-go/internal/wire"
)

// ============================================================================
// Prompt Types
// ============================================================================

// PromptMessage is one templated message in a chat-style prompt.
type PromptMessage struct {
	Role    string // system, user, assistant
	Content string
}

// PromptVariable declares a variable a prompt template consumes.
type PromptVariable struct {
	Name         string
	Description  string
	DefaultValue string
	Required     bool
}

// PromptVersion is one immutable revision of a prompt.
type PromptVersion struct {
	Version       int
	Template      string
	SystemPrompt  string
	Messages      []PromptMessage
	Variables     []PromptVariable
	Model         string
	Temperature   float64
	MaxTokens     int
	CreatedAt     *time.Time
	CreatedBy     string
	CommitMessage string
}

// Render substitutes {{name}} placeholders in the version's template.
// Placeholders without a matching variable stay verbatim.
func (v *PromptVersion) Render(variables map[string]string) string {
	result := v.Template
	for name, value := range variables {
		result = strings.ReplaceAll(result, "{{"+name+"}}", value)
	}
	return result
}

// Prompt is a named template with its version history.
type Prompt struct {
	ID             string
	Name           string
	Slug           string
	Description    string
	CurrentVersion int
	Versions       []PromptVersion
	Tags           []string
	Metadata       map[string]string
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
	CreatedBy      string
}

// Version returns the requested version, or nil when the prompt does not
// carry it. Zero resolves to the current version.
func (p *Prompt) Version(version int) *PromptVersion {
	if version == 0 {
		version = p.CurrentVersion
	}
	for i := range p.Versions {
		if p.Versions[i].Version == version {
			return &p.Versions[i]
		}
	}
	return nil
}

// Latest returns the current version, or nil when the prompt does not
// carry it.
func (p *Prompt) Latest() *PromptVersion {
	return p.Version(0)
}

// Render renders the current version's template with the given variables.
func (p *Prompt) Render(variables map[string]string) (string, error) {
	return p.RenderVersion(0, variables)
}

// RenderVersion renders a specific version's template with the given
// variables. Zero resolves to the current version.
func (p *Prompt) RenderVersion(version int, variables map[string]string) (string, error) {
	if version == 0 {
		version = p.CurrentVersion
	}
	v := p.Version(version)
	if v == nil {
		return "", fmt.Errorf("delos: prompt %q has no version %d", p.Name, version)
	}
	return v.Render(variables), nil
}

// ============================================================================
// Wire Mapping
// ============================================================================

func promptMessagesToWire(messages []PromptMessage) []*wire.PromptMessage {
	if len(messages) == 0 {
		return nil
	}
	out := make([]*wire.PromptMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, &wire.PromptMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

func promptMessagesFromWire(messages []*wire.PromptMessage) []PromptMessage {
	if len(messages) == 0 {
		return nil
	}
	out := make([]PromptMessage, 0, len(messages))
	for _, m := range messages {
		if m == nil {
			continue
		}
		out = append(out, PromptMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

func promptVariablesToWire(variables []PromptVariable) []*wire.PromptVariable {
	if len(variables) == 0 {
		return nil
	}
	out := make([]*wire.PromptVariable, 0, len(variables))
	for _, v := range variables {
		out = append(out, &wire.PromptVariable{
			Name:         v.Name,
			Description:  v.Description,
			DefaultValue: v.DefaultValue,
			Required:     v.Required,
		})
	}
	return out
}

func promptVariablesFromWire(variables []*wire.PromptVariable) []PromptVariable {
	if len(variables) == 0 {
		return nil
	}
	out := make([]PromptVariable, 0, len(variables))
	for _, v := range variables {
		if v == nil {
			continue
		}
		out = append(out, PromptVariable{
			Name:         v.Name,
			Description:  v.Description,
			DefaultValue: v.DefaultValue,
			Required:     v.Required,
		})
	}
	return out
}

func promptVersionFromWire(w *wire.PromptVersion) PromptVersion {
	return PromptVersion{
		Version:       int(w.Version),
		Template:      w.Template,
		SystemPrompt:  w.SystemPrompt,
		Messages:      promptMessagesFromWire(w.Messages),
		Variables:     promptVariablesFromWire(w.Variables),
		Model:         w.Model,
		Temperature:   w.Temperature,
		MaxTokens:     int(w.MaxTokens),
		CreatedAt:     w.CreatedAt,
		CreatedBy:     w.CreatedBy,
		CommitMessage: w.CommitMessage,
	}
}

func promptFromWire(w *wire.Prompt) Prompt {
	p := Prompt{
		ID:             w.ID,
		Name:           w.Name,
		Slug:           w.Slug,
		Description:    w.Description,
		CurrentVersion: int(w.CurrentVersion),
		Tags:           w.Tags,
		Metadata:       w.Metadata,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
		CreatedBy:      w.CreatedBy,
	}
	if len(w.Versions) > 0 {
		p.Versions = make([]PromptVersion, 0, len(w.Versions))
		for _, wv := range w.Versions {
			if wv == nil {
				continue
			}
			p.Versions = append(p.Versions, promptVersionFromWire(wv))
		}
	}
	return p
}

// ============================================================================
// Prompts Client
// ============================================================================

// PromptsClient handles prompt management.
type PromptsClient struct {
	serviceClient
}

func newPromptsClient(cfg *Config) (*PromptsClient, error) {
	sc, err := newServiceClient(cfg, ServicePrompt, wire.PromptServiceName)
	if err != nil {
		return nil, err
	}
	return &PromptsClient{serviceClient: sc}, nil
}

// CreatePromptParams describes a prompt to create.
type CreatePromptParams struct {
	// Name is required.
	Name         string
	Slug         string
	Description  string
	Template     string
	SystemPrompt string
	Messages     []PromptMessage
	Variables    []PromptVariable
	Model        string

	// Temperature defaults to DefaultTemperature when zero.
	Temperature float64

	// MaxTokens defaults to DefaultMaxTokens when zero.
	MaxTokens int

	Tags     []string
	Metadata map[string]string
}

// Create registers a new prompt and returns it with version 1.
func (c *PromptsClient) Create(ctx context.Context, params CreatePromptParams) (*Prompt, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("delos: prompt name is required")
	}
	if params.Temperature == 0 {
		params.Temperature = DefaultTemperature
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = DefaultMaxTokens
	}

	req := &wire.CreatePromptRequest{
		Name:         params.Name,
		Slug:         params.Slug,
		Description:  params.Description,
		Template:     params.Template,
		SystemPrompt: params.SystemPrompt,
		Messages:     promptMessagesToWire(params.Messages),
		Variables:    promptVariablesToWire(params.Variables),
		Model:        params.Model,
		Temperature:  params.Temperature,
		MaxTokens:    int32(params.MaxTokens),
		Tags:         params.Tags,
		Metadata:     params.Metadata,
	}

	var resp wire.CreatePromptResponse
	if err := c.invoke(ctx, "CreatePrompt", req, &resp); err != nil {
		return nil, err
	}
	return promptPtrFromWire(resp.Prompt), nil
}

// Get retrieves a prompt by ID or slug, including its current version.
// It returns nil, nil when the prompt does not exist.
func (c *PromptsClient) Get(ctx context.Context, idOrSlug string) (*Prompt, error) {
	return c.GetAtVersion(ctx, idOrSlug, 0)
}

// GetAtVersion retrieves a prompt by ID or slug with a specific version
// resolved. Zero resolves to the latest version. It returns nil, nil when
// the prompt does not exist.
func (c *PromptsClient) GetAtVersion(ctx context.Context, idOrSlug string, version int) (*Prompt, error) {
	req := &wire.GetPromptRequest{ID: idOrSlug, Version: int32(version)}

	var resp wire.GetPromptResponse
	err := c.invoke(ctx, "GetPrompt", req, &resp)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return promptPtrFromWire(resp.Prompt), nil
}

// UpdatePromptParams carries the fields of an update. Zero values mean
// "leave unchanged".
type UpdatePromptParams struct {
	Template      string
	SystemPrompt  string
	Messages      []PromptMessage
	Variables     []PromptVariable
	Model         string
	Temperature   float64
	MaxTokens     int
	CommitMessage string
}

// Update creates a new version of a prompt server-side and returns the
// updated prompt.
func (c *PromptsClient) Update(ctx context.Context, id string, params UpdatePromptParams) (*Prompt, error) {
	req := &wire.UpdatePromptRequest{
		ID:            id,
		Template:      params.Template,
		SystemPrompt:  params.SystemPrompt,
		Messages:      promptMessagesToWire(params.Messages),
		Variables:     promptVariablesToWire(params.Variables),
		Model:         params.Model,
		Temperature:   params.Temperature,
		MaxTokens:     int32(params.MaxTokens),
		CommitMessage: params.CommitMessage,
	}

	var resp wire.UpdatePromptResponse
	if err := c.invoke(ctx, "UpdatePrompt", req, &resp); err != nil {
		return nil, err
	}
	return promptPtrFromWire(resp.Prompt), nil
}

// Delete removes a prompt and reports whether the service deleted it.
func (c *PromptsClient) Delete(ctx context.Context, id string) (bool, error) {
	var resp wire.DeletePromptResponse
	err := c.invoke(ctx, "DeletePrompt", &wire.DeletePromptRequest{ID: id}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

// ListPromptsParams filters a prompt listing.
type ListPromptsParams struct {
	Tags   []string
	Search string
	Limit  int
	Offset int
}

// List returns one page of prompts matching the given filters.
func (c *PromptsClient) List(ctx context.Context, params ListPromptsParams) (*Page[Prompt], error) {
	req := &wire.ListPromptsRequest{
		Tags:   params.Tags,
		Search: params.Search,
		Limit:  limitOrDefault(params.Limit),
		Offset: int32(params.Offset),
	}

	var resp wire.ListPromptsResponse
	if err := c.invoke(ctx, "ListPrompts", req, &resp); err != nil {
		return nil, err
	}

	prompts := make([]Prompt, 0, len(resp.Prompts))
	for _, wp := range resp.Prompts {
		if wp == nil {
			continue
		}
		prompts = append(prompts, promptFromWire(wp))
	}
	return &Page[Prompt]{
		Items:      prompts,
		TotalCount: int(resp.TotalCount),
		Limit:      int(req.Limit),
		Offset:     params.Offset,
	}, nil
}

// GetVersion retrieves one version of a prompt. It returns nil, nil when
// the prompt or version does not exist.
func (c *PromptsClient) GetVersion(ctx context.Context, promptID string, version int) (*PromptVersion, error) {
	req := &wire.GetPromptVersionRequest{ID: promptID, Version: int32(version)}

	var resp wire.GetPromptVersionResponse
	err := c.invoke(ctx, "GetPromptVersion", req, &resp)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if resp.Version == nil {
		return nil, nil
	}
	v := promptVersionFromWire(resp.Version)
	return &v, nil
}

// ListVersions returns the full version history of a prompt, newest last.
func (c *PromptsClient) ListVersions(ctx context.Context, promptID string) ([]PromptVersion, error) {
	var resp wire.ListVersionsResponse
	err := c.invoke(ctx, "ListVersions", &wire.ListVersionsRequest{ID: promptID}, &resp)
	if err != nil {
		return nil, err
	}

	versions := make([]PromptVersion, 0, len(resp.Versions))
	for _, wv := range resp.Versions {
		if wv == nil {
			continue
		}
		versions = append(versions, promptVersionFromWire(wv))
	}
	return versions, nil
}

// promptPtrFromWire maps an optional wire prompt, preserving nil.
func promptPtrFromWire(w *wire.Prompt) *Prompt {
	if w == nil {
		return nil
	}
	p := promptFromWire(w)
	return &p
}
