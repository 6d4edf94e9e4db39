package delos

import (
	"context"
	"time"

	"github.com/instantcocoa/delos-go/internal/wire"
)

// ============================================================================
// Dataset Types
// ============================================================================

// ExampleSource records where a dataset example came from.
type ExampleSource string

const (
	ExampleSourceUnspecified ExampleSource = "unspecified"
	ExampleSourceManual      ExampleSource = "manual"
	ExampleSourceGenerated   ExampleSource = "generated"
	ExampleSourceProduction  ExampleSource = "production"
	ExampleSourceImported    ExampleSource = "imported"
)

// String returns the string representation of the example source.
func (s ExampleSource) String() string { return string(s) }

// SchemaField declares one field of a dataset schema. Type is one of
// string, number, boolean, json, or array.
type SchemaField struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// DatasetSchema describes the shape of a dataset's examples.
type DatasetSchema struct {
	InputFields          []SchemaField
	ExpectedOutputFields []SchemaField
}

// Dataset is a named collection of examples, optionally bound to a prompt.
type Dataset struct {
	ID           string
	Name         string
	Description  string
	PromptID     string
	Schema       *DatasetSchema
	ExampleCount int
	LastUpdated  *time.Time
	Tags         []string
	Metadata     map[string]string
	Version      int
	CreatedBy    string
	CreatedAt    *time.Time
}

// Example is one input/expected-output pair in a dataset.
type Example struct {
	ID             string
	DatasetID      string
	Input          JSONObject
	ExpectedOutput JSONObject
	Metadata       map[string]string
	Source         ExampleSource
	CreatedAt      *time.Time
}

// ExampleInput is an example to add to a dataset. Source defaults to
// ExampleSourceManual.
type ExampleInput struct {
	Input          JSONObject
	ExpectedOutput JSONObject
	Metadata       map[string]string
	Source         ExampleSource
}

// ============================================================================
// Wire Mapping
// ============================================================================

var exampleSourceToWire = map[ExampleSource]wire.ExampleSource{
	ExampleSourceUnspecified: wire.ExampleSourceUnspecified,
	ExampleSourceManual:      wire.ExampleSourceManual,
	ExampleSourceGenerated:   wire.ExampleSourceGenerated,
	ExampleSourceProduction:  wire.ExampleSourceProduction,
	ExampleSourceImported:    wire.ExampleSourceImported,
}

var exampleSourceNames = map[wire.ExampleSource]ExampleSource{
	wire.ExampleSourceUnspecified: ExampleSourceUnspecified,
	wire.ExampleSourceManual:      ExampleSourceManual,
	wire.ExampleSourceGenerated:   ExampleSourceGenerated,
	wire.ExampleSourceProduction:  ExampleSourceProduction,
	wire.ExampleSourceImported:    ExampleSourceImported,
}

func exampleSourceFromWire(s wire.ExampleSource) ExampleSource {
	if source, ok := exampleSourceNames[s]; ok {
		return source
	}
	return ExampleSourceUnspecified
}

func schemaFieldsToWire(fields []SchemaField) []*wire.SchemaField {
	if len(fields) == 0 {
		return nil
	}
	out := make([]*wire.SchemaField, 0, len(fields))
	for _, f := range fields {
		out = append(out, &wire.SchemaField{
			Name:        f.Name,
			Type:        f.Type,
			Description: f.Description,
			Required:    f.Required,
		})
	}
	return out
}

func schemaFieldsFromWire(fields []*wire.SchemaField) []SchemaField {
	if len(fields) == 0 {
		return nil
	}
	out := make([]SchemaField, 0, len(fields))
	for _, f := range fields {
		if f == nil {
			continue
		}
		out = append(out, SchemaField{
			Name:        f.Name,
			Type:        f.Type,
			Description: f.Description,
			Required:    f.Required,
		})
	}
	return out
}

func datasetSchemaToWire(s *DatasetSchema) *wire.DatasetSchema {
	if s == nil {
		return nil
	}
	return &wire.DatasetSchema{
		InputFields:          schemaFieldsToWire(s.InputFields),
		ExpectedOutputFields: schemaFieldsToWire(s.ExpectedOutputFields),
	}
}

func datasetSchemaFromWire(s *wire.DatasetSchema) *DatasetSchema {
	if s == nil {
		return nil
	}
	return &DatasetSchema{
		InputFields:          schemaFieldsFromWire(s.InputFields),
		ExpectedOutputFields: schemaFieldsFromWire(s.ExpectedOutputFields),
	}
}

func datasetFromWire(w *wire.Dataset) Dataset {
	return Dataset{
		ID:           w.ID,
		Name:         w.Name,
		Description:  w.Description,
		PromptID:     w.PromptID,
		Schema:       datasetSchemaFromWire(w.Schema),
		ExampleCount: int(w.ExampleCount),
		LastUpdated:  w.LastUpdated,
		Tags:         w.Tags,
		Metadata:     w.Metadata,
		Version:      int(w.Version),
		CreatedBy:    w.CreatedBy,
		CreatedAt:    w.CreatedAt,
	}
}

func datasetPtrFromWire(w *wire.Dataset) *Dataset {
	if w == nil {
		return nil
	}
	d := datasetFromWire(w)
	return &d
}

func exampleFromWire(w *wire.Example) Example {
	return Example{
		ID:             w.ID,
		DatasetID:      w.DatasetID,
		Input:          fromWireMap(w.Input),
		ExpectedOutput: fromWireMap(w.ExpectedOutput),
		Metadata:       w.Metadata,
		Source:         exampleSourceFromWire(w.Source),
		CreatedAt:      w.CreatedAt,
	}
}

func exampleInputToWire(in ExampleInput) (*wire.ExampleInput, error) {
	input, err := toWireMap(in.Input)
	if err != nil {
		return nil, err
	}
	expected, err := toWireMap(in.ExpectedOutput)
	if err != nil {
		return nil, err
	}

	source := in.Source
	if source == "" {
		source = ExampleSourceManual
	}
	return &wire.ExampleInput{
		Input:          input,
		ExpectedOutput: expected,
		Metadata:       in.Metadata,
		Source:         exampleSourceToWire[source],
	}, nil
}

// ============================================================================
// Datasets Client
// ============================================================================

// DatasetsClient handles dataset and example management.
type DatasetsClient struct {
	serviceClient
}

func newDatasetsClient(cfg *Config) (*DatasetsClient, error) {
	sc, err := newServiceClient(cfg, ServiceDatasets, wire.DatasetsServiceName)
	if err != nil {
		return nil, err
	}
	return &DatasetsClient{serviceClient: sc}, nil
}

// CreateDatasetParams describes a dataset to create.
type CreateDatasetParams struct {
	Name        string
	Description string
	PromptID    string
	Schema      *DatasetSchema
	Tags        []string
	Metadata    map[string]string
}

// Create registers a new dataset and returns it.
func (c *DatasetsClient) Create(ctx context.Context, params CreateDatasetParams) (*Dataset, error) {
	req := &wire.CreateDatasetRequest{
		Name:        params.Name,
		Description: params.Description,
		PromptID:    params.PromptID,
		Schema:      datasetSchemaToWire(params.Schema),
		Tags:        params.Tags,
		Metadata:    params.Metadata,
	}

	var resp wire.CreateDatasetResponse
	if err := c.invoke(ctx, "CreateDataset", req, &resp); err != nil {
		return nil, err
	}
	return datasetPtrFromWire(resp.Dataset), nil
}

// Get retrieves a dataset by ID. It returns nil, nil when the dataset
// does not exist.
func (c *DatasetsClient) Get(ctx context.Context, id string) (*Dataset, error) {
	var resp wire.GetDatasetResponse
	err := c.invoke(ctx, "GetDataset", &wire.GetDatasetRequest{ID: id}, &resp)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return datasetPtrFromWire(resp.Dataset), nil
}

// UpdateDatasetParams carries the fields of an update. Zero values mean
// "leave unchanged".
type UpdateDatasetParams struct {
	Name        string
	Description string
	Tags        []string
	Metadata    map[string]string
}

// Update modifies a dataset's descriptive fields and returns the updated
// dataset.
func (c *DatasetsClient) Update(ctx context.Context, id string, params UpdateDatasetParams) (*Dataset, error) {
	req := &wire.UpdateDatasetRequest{
		ID:          id,
		Name:        params.Name,
		Description: params.Description,
		Tags:        params.Tags,
		Metadata:    params.Metadata,
	}

	var resp wire.UpdateDatasetResponse
	if err := c.invoke(ctx, "UpdateDataset", req, &resp); err != nil {
		return nil, err
	}
	return datasetPtrFromWire(resp.Dataset), nil
}

// Delete removes a dataset and reports whether the service deleted it.
func (c *DatasetsClient) Delete(ctx context.Context, id string) (bool, error) {
	var resp wire.DeleteDatasetResponse
	err := c.invoke(ctx, "DeleteDataset", &wire.DeleteDatasetRequest{ID: id}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

// ListDatasetsParams filters a dataset listing.
type ListDatasetsParams struct {
	PromptID string
	Tags     []string
	Search   string
	Limit    int
	Offset   int
}

// List returns one page of datasets matching the given filters.
func (c *DatasetsClient) List(ctx context.Context, params ListDatasetsParams) (*Page[Dataset], error) {
	req := &wire.ListDatasetsRequest{
		PromptID: params.PromptID,
		Tags:     params.Tags,
		Search:   params.Search,
		Limit:    limitOrDefault(params.Limit),
		Offset:   int32(params.Offset),
	}

	var resp wire.ListDatasetsResponse
	if err := c.invoke(ctx, "ListDatasets", req, &resp); err != nil {
		return nil, err
	}

	datasets := make([]Dataset, 0, len(resp.Datasets))
	for _, wd := range resp.Datasets {
		if wd == nil {
			continue
		}
		datasets = append(datasets, datasetFromWire(wd))
	}
	return &Page[Dataset]{
		Items:      datasets,
		TotalCount: int(resp.TotalCount),
		Limit:      int(req.Limit),
		Offset:     params.Offset,
	}, nil
}

// AddExamples appends examples to a dataset. It returns the stored
// examples and the count the service accepted. Input and expected-output
// payloads are validated before anything goes on the wire.
func (c *DatasetsClient) AddExamples(ctx context.Context, datasetID string, examples []ExampleInput) ([]Example, int, error) {
	wireExamples := make([]*wire.ExampleInput, 0, len(examples))
	for _, in := range examples {
		we, err := exampleInputToWire(in)
		if err != nil {
			return nil, 0, err
		}
		wireExamples = append(wireExamples, we)
	}

	req := &wire.AddExamplesRequest{DatasetID: datasetID, Examples: wireExamples}

	var resp wire.AddExamplesResponse
	if err := c.invoke(ctx, "AddExamples", req, &resp); err != nil {
		return nil, 0, err
	}

	added := make([]Example, 0, len(resp.Examples))
	for _, we := range resp.Examples {
		if we == nil {
			continue
		}
		added = append(added, exampleFromWire(we))
	}
	return added, int(resp.AddedCount), nil
}

// GetExamplesParams selects a window of a dataset's examples.
type GetExamplesParams struct {
	Limit  int
	Offset int

	// Shuffle asks the service for a random sample instead of insertion
	// order.
	Shuffle bool
}

// GetExamples returns one page of a dataset's examples.
func (c *DatasetsClient) GetExamples(ctx context.Context, datasetID string, params GetExamplesParams) (*Page[Example], error) {
	req := &wire.GetExamplesRequest{
		DatasetID: datasetID,
		Limit:     limitOrDefault(params.Limit),
		Offset:    int32(params.Offset),
		Shuffle:   params.Shuffle,
	}

	var resp wire.GetExamplesResponse
	if err := c.invoke(ctx, "GetExamples", req, &resp); err != nil {
		return nil, err
	}

	examples := make([]Example, 0, len(resp.Examples))
	for _, we := range resp.Examples {
		if we == nil {
			continue
		}
		examples = append(examples, exampleFromWire(we))
	}
	return &Page[Example]{
		Items:      examples,
		TotalCount: int(resp.TotalCount),
		Limit:      int(req.Limit),
		Offset:     params.Offset,
	}, nil
}

// RemoveExamples deletes examples from a dataset by ID and returns the
// number removed.
func (c *DatasetsClient) RemoveExamples(ctx context.Context, datasetID string, exampleIDs []string) (int, error) {
	req := &wire.RemoveExamplesRequest{DatasetID: datasetID, ExampleIDs: exampleIDs}

	var resp wire.RemoveExamplesResponse
	if err := c.invoke(ctx, "RemoveExamples", req, &resp); err != nil {
		return 0, err
	}
	return int(resp.RemovedCount), nil
}
