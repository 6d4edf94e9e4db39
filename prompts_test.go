package delos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/instantcocoa/delos-go/internal/wire"
)

func TestPromptVersionRender(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		variables map[string]string
		expected  string
	}{
		{
			name:      "single variable",
			template:  "Hello {{name}}!",
			variables: map[string]string{"name": "Dolores"},
			expected:  "Hello Dolores!",
		},
		{
			name:      "repeated variable",
			template:  "{{x}} and {{x}}",
			variables: map[string]string{"x": "again"},
			expected:  "again and again",
		},
		{
			name:      "unmatched placeholder stays verbatim",
			template:  "Hello {{name}}, welcome to {{park}}!",
			variables: map[string]string{"name": "Dolores"},
			expected:  "Hello Dolores, welcome to {{park}}!",
		},
		{
			name:      "no variables",
			template:  "static text",
			variables: nil,
			expected:  "static text",
		},
		{
			name:      "extra variables are ignored",
			template:  "plain",
			variables: map[string]string{"unused": "x"},
			expected:  "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := PromptVersion{Template: tt.template}
			if got := v.Render(tt.variables); got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPromptVersionLookup(t *testing.T) {
	prompt := Prompt{
		Name:           "greeting",
		CurrentVersion: 3,
		Versions: []PromptVersion{
			{Version: 1, Template: "v1"},
			{Version: 2, Template: "v2"},
			{Version: 3, Template: "v3"},
		},
	}

	if v := prompt.Version(2); v == nil || v.Template != "v2" {
		t.Errorf("Version(2) = %+v, want template v2", v)
	}
	// Zero resolves to the current version.
	if v := prompt.Version(0); v == nil || v.Template != "v3" {
		t.Errorf("Version(0) = %+v, want template v3", v)
	}
	if v := prompt.Latest(); v == nil || v.Template != "v3" {
		t.Errorf("Latest() = %+v, want template v3", v)
	}
	if v := prompt.Version(9); v != nil {
		t.Errorf("Version(9) = %+v, want nil", v)
	}

	// A prompt whose current version is absent from the slice.
	sparse := Prompt{CurrentVersion: 5, Versions: []PromptVersion{{Version: 1}}}
	if v := sparse.Latest(); v != nil {
		t.Errorf("Latest() = %+v, want nil for missing current version", v)
	}
}

func TestPromptRender(t *testing.T) {
	prompt := Prompt{
		Name:           "greeting",
		CurrentVersion: 2,
		Versions: []PromptVersion{
			{Version: 1, Template: "old {{name}}"},
			{Version: 2, Template: "new {{name}}"},
		},
	}

	got, err := prompt.Render(map[string]string{"name": "Dolores"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got != "new Dolores" {
		t.Errorf("Render() = %q, want %q", got, "new Dolores")
	}

	got, err = prompt.RenderVersion(1, map[string]string{"name": "Dolores"})
	if err != nil {
		t.Fatalf("RenderVersion failed: %v", err)
	}
	if got != "old Dolores" {
		t.Errorf("RenderVersion(1) = %q, want %q", got, "old Dolores")
	}

	if _, err := prompt.RenderVersion(9, nil); err == nil {
		t.Error("RenderVersion(9) should fail for a missing version")
	}
}

// fakePrompts backs the prompt service in bufconn tests.
type fakePrompts struct {
	create      func(context.Context, *wire.CreatePromptRequest) (any, error)
	get         func(context.Context, *wire.GetPromptRequest) (any, error)
	update      func(context.Context, *wire.UpdatePromptRequest) (any, error)
	del         func(context.Context, *wire.DeletePromptRequest) (any, error)
	list        func(context.Context, *wire.ListPromptsRequest) (any, error)
	getVersion  func(context.Context, *wire.GetPromptVersionRequest) (any, error)
	listVersion func(context.Context, *wire.ListVersionsRequest) (any, error)
}

func (f *fakePrompts) register(srv *grpc.Server) {
	srv.RegisterService(&grpc.ServiceDesc{
		ServiceName: wire.PromptServiceName,
		HandlerType: anyService,
		Methods: []grpc.MethodDesc{
			unary("CreatePrompt", f.create),
			unary("GetPrompt", f.get),
			unary("UpdatePrompt", f.update),
			unary("DeletePrompt", f.del),
			unary("ListPrompts", f.list),
			unary("GetPromptVersion", f.getVersion),
			unary("ListVersions", f.listVersion),
		},
	}, f)
}

func newTestPromptsClient(t *testing.T, f *fakePrompts) *PromptsClient {
	t.Helper()
	conn := newBufConn(t, f.register)
	return &PromptsClient{serviceClient: newTestSubClient(t, ServicePrompt, wire.PromptServiceName, conn)}
}

func TestPromptsCreate(t *testing.T) {
	var got *wire.CreatePromptRequest
	client := newTestPromptsClient(t, &fakePrompts{
		create: func(_ context.Context, req *wire.CreatePromptRequest) (any, error) {
			got = req
			return &wire.CreatePromptResponse{Prompt: &wire.Prompt{
				ID:             "p1",
				Name:           req.Name,
				Slug:           "greeting",
				CurrentVersion: 1,
				Versions: []*wire.PromptVersion{{
					Version:     1,
					Template:    req.Template,
					Temperature: req.Temperature,
					MaxTokens:   req.MaxTokens,
				}},
			}}, nil
		},
	})

	prompt, err := client.Create(context.Background(), CreatePromptParams{
		Name:     "greeting",
		Template: "Hello {{name}}!",
		Variables: []PromptVariable{
			{Name: "name", Required: true},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, prompt)
	assert.Equal(t, "p1", prompt.ID)
	assert.Equal(t, 1, prompt.CurrentVersion)

	// Unset sampling fields go out as the package defaults.
	require.NotNil(t, got)
	assert.Equal(t, DefaultTemperature, got.Temperature)
	assert.Equal(t, int32(DefaultMaxTokens), got.MaxTokens)
	require.Len(t, got.Variables, 1)
	assert.True(t, got.Variables[0].Required)
}

func TestPromptsCreateRequiresName(t *testing.T) {
	client := newTestPromptsClient(t, &fakePrompts{})

	_, err := client.Create(context.Background(), CreatePromptParams{Template: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestPromptsCreateKeepsExplicitSampling(t *testing.T) {
	var got *wire.CreatePromptRequest
	client := newTestPromptsClient(t, &fakePrompts{
		create: func(_ context.Context, req *wire.CreatePromptRequest) (any, error) {
			got = req
			return &wire.CreatePromptResponse{Prompt: &wire.Prompt{ID: "p1"}}, nil
		},
	})

	_, err := client.Create(context.Background(), CreatePromptParams{
		Name:        "tuned",
		Temperature: 0.1,
		MaxTokens:   64,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.1, got.Temperature)
	assert.Equal(t, int32(64), got.MaxTokens)
}

func TestPromptsGet(t *testing.T) {
	var got *wire.GetPromptRequest
	client := newTestPromptsClient(t, &fakePrompts{
		get: func(_ context.Context, req *wire.GetPromptRequest) (any, error) {
			got = req
			if req.ID != "greeting" {
				return nil, status.Error(codes.NotFound, "no such prompt")
			}
			return &wire.GetPromptResponse{Prompt: &wire.Prompt{
				ID:             "p1",
				Name:           "greeting",
				CurrentVersion: 2,
				Versions:       []*wire.PromptVersion{{Version: 2, Template: "Hello {{name}}!"}},
			}}, nil
		},
	})

	ctx := context.Background()

	prompt, err := client.Get(ctx, "greeting")
	require.NoError(t, err)
	require.NotNil(t, prompt)
	assert.Equal(t, int32(0), got.Version)

	rendered, err := prompt.Render(map[string]string{"name": "Dolores"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Dolores!", rendered)

	// Missing prompts come back as nil, nil.
	prompt, err = client.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, prompt)

	// A pinned version travels on the wire.
	_, err = client.GetAtVersion(ctx, "greeting", 7)
	require.NoError(t, err)
	assert.Equal(t, int32(7), got.Version)
}

func TestPromptsUpdate(t *testing.T) {
	var got *wire.UpdatePromptRequest
	client := newTestPromptsClient(t, &fakePrompts{
		update: func(_ context.Context, req *wire.UpdatePromptRequest) (any, error) {
			got = req
			return &wire.UpdatePromptResponse{Prompt: &wire.Prompt{
				ID:             req.ID,
				CurrentVersion: 3,
			}}, nil
		},
	})

	prompt, err := client.Update(context.Background(), "p1", UpdatePromptParams{
		Template:      "Hi {{name}}!",
		CommitMessage: "shorter greeting",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, prompt.CurrentVersion)

	require.NotNil(t, got)
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, "Hi {{name}}!", got.Template)
	assert.Equal(t, "shorter greeting", got.CommitMessage)
	// Untouched fields stay zero so the server leaves them unchanged.
	assert.Zero(t, got.Temperature)
	assert.Zero(t, got.MaxTokens)
}

func TestPromptsDelete(t *testing.T) {
	client := newTestPromptsClient(t, &fakePrompts{
		del: func(_ context.Context, req *wire.DeletePromptRequest) (any, error) {
			return &wire.DeletePromptResponse{Success: req.ID == "p1"}, nil
		},
	})

	ok, err := client.Delete(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.Delete(context.Background(), "p2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPromptsList(t *testing.T) {
	var got *wire.ListPromptsRequest
	client := newTestPromptsClient(t, &fakePrompts{
		list: func(_ context.Context, req *wire.ListPromptsRequest) (any, error) {
			got = req
			return &wire.ListPromptsResponse{
				Prompts: []*wire.Prompt{
					{ID: "p1", Name: "greeting"},
					{ID: "p2", Name: "farewell"},
				},
				TotalCount: 12,
			}, nil
		},
	})

	page, err := client.List(context.Background(), ListPromptsParams{
		Tags:   []string{"chat"},
		Search: "greet",
	})
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.Equal(t, 12, page.TotalCount)
	assert.Equal(t, DefaultLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.True(t, page.HasMore())

	require.NotNil(t, got)
	assert.Equal(t, []string{"chat"}, got.Tags)
	assert.Equal(t, "greet", got.Search)
	assert.Equal(t, int32(DefaultLimit), got.Limit)
}

func TestPromptsGetVersion(t *testing.T) {
	client := newTestPromptsClient(t, &fakePrompts{
		getVersion: func(_ context.Context, req *wire.GetPromptVersionRequest) (any, error) {
			switch {
			case req.Version == 2:
				return &wire.GetPromptVersionResponse{Version: &wire.PromptVersion{
					Version:  2,
					Template: "v2 template",
				}}, nil
			case req.Version == 3:
				// Version body absent from an OK response.
				return &wire.GetPromptVersionResponse{}, nil
			default:
				return nil, status.Error(codes.NotFound, "no such version")
			}
		},
	})

	ctx := context.Background()

	v, err := client.GetVersion(ctx, "p1", 2)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "v2 template", v.Template)

	v, err = client.GetVersion(ctx, "p1", 3)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = client.GetVersion(ctx, "p1", 9)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPromptsListVersions(t *testing.T) {
	client := newTestPromptsClient(t, &fakePrompts{
		listVersion: func(_ context.Context, req *wire.ListVersionsRequest) (any, error) {
			return &wire.ListVersionsResponse{Versions: []*wire.PromptVersion{
				{Version: 1},
				nil,
				{Version: 2},
			}}, nil
		},
	})

	versions, err := client.ListVersions(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 1, versions[0].Version)
	assert.Equal(t, 2, versions[1].Version)
}
