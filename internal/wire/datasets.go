package wire

import "time"

// DatasetsServiceName is the fully qualified name of the dataset management
// service.
const DatasetsServiceName = "datasets.v1.DatasetsService"

func init() {
	register(Service{
		Name: DatasetsServiceName,
		Methods: []string{
			"CreateDataset", "GetDataset", "UpdateDataset", "DeleteDataset",
			"ListDatasets", "AddExamples", "GetExamples", "RemoveExamples",
		},
	})
}

// ExampleSource mirrors datasets.v1.ExampleSource.
type ExampleSource int32

const (
	ExampleSourceUnspecified ExampleSource = 0
	ExampleSourceManual      ExampleSource = 1
	ExampleSourceGenerated   ExampleSource = 2
	ExampleSourceProduction  ExampleSource = 3
	ExampleSourceImported    ExampleSource = 4
)

// SchemaField describes one field of a dataset schema.
type SchemaField struct {
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// DatasetSchema constrains the shape of example inputs and expected outputs.
type DatasetSchema struct {
	InputFields          []*SchemaField `json:"input_fields,omitempty"`
	ExpectedOutputFields []*SchemaField `json:"expected_output_fields,omitempty"`
}

// Dataset is a named collection of evaluation examples.
type Dataset struct {
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name,omitempty"`
	Description  string            `json:"description,omitempty"`
	PromptID     string            `json:"prompt_id,omitempty"`
	Schema       *DatasetSchema    `json:"schema,omitempty"`
	ExampleCount int32             `json:"example_count,omitempty"`
	LastUpdated  *time.Time        `json:"last_updated,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Version      int32             `json:"version,omitempty"`
	CreatedBy    string            `json:"created_by,omitempty"`
	CreatedAt    *time.Time        `json:"created_at,omitempty"`
}

// Example is a stored dataset example. Input and expected output are
// free-form structures.
type Example struct {
	ID             string            `json:"id,omitempty"`
	DatasetID      string            `json:"dataset_id,omitempty"`
	Input          map[string]any    `json:"input,omitempty"`
	ExpectedOutput map[string]any    `json:"expected_output,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Source         ExampleSource     `json:"source,omitempty"`
	CreatedAt      *time.Time        `json:"created_at,omitempty"`
}

// ExampleInput is the client-supplied form of an example before the service
// assigns identifiers.
type ExampleInput struct {
	Input          map[string]any    `json:"input,omitempty"`
	ExpectedOutput map[string]any    `json:"expected_output,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Source         ExampleSource     `json:"source,omitempty"`
}

type CreateDatasetRequest struct {
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	PromptID    string            `json:"prompt_id,omitempty"`
	Schema      *DatasetSchema    `json:"schema,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type CreateDatasetResponse struct {
	Dataset *Dataset `json:"dataset,omitempty"`
}

type GetDatasetRequest struct {
	ID string `json:"id,omitempty"`
}

type GetDatasetResponse struct {
	Dataset *Dataset `json:"dataset,omitempty"`
}

type UpdateDatasetRequest struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type UpdateDatasetResponse struct {
	Dataset *Dataset `json:"dataset,omitempty"`
}

type DeleteDatasetRequest struct {
	ID string `json:"id,omitempty"`
}

type DeleteDatasetResponse struct {
	Success bool `json:"success,omitempty"`
}

type ListDatasetsRequest struct {
	PromptID string   `json:"prompt_id,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Search   string   `json:"search,omitempty"`
	Limit    int32    `json:"limit,omitempty"`
	Offset   int32    `json:"offset,omitempty"`
}

type ListDatasetsResponse struct {
	Datasets   []*Dataset `json:"datasets,omitempty"`
	TotalCount int32      `json:"total_count,omitempty"`
}

type AddExamplesRequest struct {
	DatasetID string          `json:"dataset_id,omitempty"`
	Examples  []*ExampleInput `json:"examples,omitempty"`
}

type AddExamplesResponse struct {
	Examples   []*Example `json:"examples,omitempty"`
	AddedCount int32      `json:"added_count,omitempty"`
}

type GetExamplesRequest struct {
	DatasetID string `json:"dataset_id,omitempty"`
	Limit     int32  `json:"limit,omitempty"`
	Offset    int32  `json:"offset,omitempty"`
	Shuffle   bool   `json:"shuffle,omitempty"`
}

type GetExamplesResponse struct {
	Examples   []*Example `json:"examples,omitempty"`
	TotalCount int32      `json:"total_count,omitempty"`
}

type RemoveExamplesRequest struct {
	DatasetID  string   `json:"dataset_id,omitempty"`
	ExampleIDs []string `json:"example_ids,omitempty"`
}

type RemoveExamplesResponse struct {
	RemovedCount int32 `json:"removed_count,omitempty"`
}
