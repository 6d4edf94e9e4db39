package wire

import "time"

// PromptServiceName is the fully qualified name of the prompt management
// service.
const PromptServiceName = "prompt.v1.PromptService"

func init() {
	register(Service{
		Name: PromptServiceName,
		Methods: []string{
			"CreatePrompt", "GetPrompt", "UpdatePrompt", "DeletePrompt",
			"ListPrompts", "GetPromptVersion", "ListVersions",
		},
	})
}

// PromptMessage is one turn of a chat-style prompt template.
type PromptMessage struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// PromptVariable declares a placeholder used by a prompt template.
type PromptVariable struct {
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	DefaultValue string `json:"default_value,omitempty"`
	Required     bool   `json:"required,omitempty"`
}

// PromptVersion is an immutable snapshot of a prompt's content.
type PromptVersion struct {
	Version       int32             `json:"version,omitempty"`
	Template      string            `json:"template,omitempty"`
	SystemPrompt  string            `json:"system_prompt,omitempty"`
	Messages      []*PromptMessage  `json:"messages,omitempty"`
	Variables     []*PromptVariable `json:"variables,omitempty"`
	Model         string            `json:"model,omitempty"`
	Temperature   float64           `json:"temperature,omitempty"`
	MaxTokens     int32             `json:"max_tokens,omitempty"`
	CreatedAt     *time.Time        `json:"created_at,omitempty"`
	CreatedBy     string            `json:"created_by,omitempty"`
	CommitMessage string            `json:"commit_message,omitempty"`
}

// Prompt is a versioned prompt definition.
type Prompt struct {
	ID             string            `json:"id,omitempty"`
	Name           string            `json:"name,omitempty"`
	Slug           string            `json:"slug,omitempty"`
	Description    string            `json:"description,omitempty"`
	CurrentVersion int32             `json:"current_version,omitempty"`
	Versions       []*PromptVersion  `json:"versions,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      *time.Time        `json:"created_at,omitempty"`
	UpdatedAt      *time.Time        `json:"updated_at,omitempty"`
	CreatedBy      string            `json:"created_by,omitempty"`
}

type CreatePromptRequest struct {
	Name         string            `json:"name,omitempty"`
	Slug         string            `json:"slug,omitempty"`
	Description  string            `json:"description,omitempty"`
	Template     string            `json:"template,omitempty"`
	SystemPrompt string            `json:"system_prompt,omitempty"`
	Messages     []*PromptMessage  `json:"messages,omitempty"`
	Variables    []*PromptVariable `json:"variables,omitempty"`
	Model        string            `json:"model,omitempty"`
	Temperature  float64           `json:"temperature,omitempty"`
	MaxTokens    int32             `json:"max_tokens,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type CreatePromptResponse struct {
	Prompt *Prompt `json:"prompt,omitempty"`
}

// GetPromptRequest fetches a prompt by ID or slug. Version zero means the
// current version.
type GetPromptRequest struct {
	ID      string `json:"id,omitempty"`
	Version int32  `json:"version,omitempty"`
}

type GetPromptResponse struct {
	Prompt *Prompt `json:"prompt,omitempty"`
}

// UpdatePromptRequest creates a new version of an existing prompt. Zero
// values leave the corresponding field unchanged.
type UpdatePromptRequest struct {
	ID            string            `json:"id,omitempty"`
	Template      string            `json:"template,omitempty"`
	SystemPrompt  string            `json:"system_prompt,omitempty"`
	Messages      []*PromptMessage  `json:"messages,omitempty"`
	Variables     []*PromptVariable `json:"variables,omitempty"`
	Model         string            `json:"model,omitempty"`
	Temperature   float64           `json:"temperature,omitempty"`
	MaxTokens     int32             `json:"max_tokens,omitempty"`
	CommitMessage string            `json:"commit_message,omitempty"`
}

type UpdatePromptResponse struct {
	Prompt *Prompt `json:"prompt,omitempty"`
}

type DeletePromptRequest struct {
	ID string `json:"id,omitempty"`
}

type DeletePromptResponse struct {
	Success bool `json:"success,omitempty"`
}

type ListPromptsRequest struct {
	Tags   []string `json:"tags,omitempty"`
	Search string   `json:"search,omitempty"`
	Limit  int32    `json:"limit,omitempty"`
	Offset int32    `json:"offset,omitempty"`
}

type ListPromptsResponse struct {
	Prompts    []*Prompt `json:"prompts,omitempty"`
	TotalCount int32     `json:"total_count,omitempty"`
}

type GetPromptVersionRequest struct {
	ID      string `json:"id,omitempty"`
	Version int32  `json:"version,omitempty"`
}

type GetPromptVersionResponse struct {
	Version *PromptVersion `json:"version,omitempty"`
}

type ListVersionsRequest struct {
	ID string `json:"id,omitempty"`
}

type ListVersionsResponse struct {
	Versions []*PromptVersion `json:"versions,omitempty"`
}
