package darwin

import (
	"context"
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// Dataset is a collection of items owned by a team.
//
// Every field but ID may be absent from a response; absent optional fields
// are nil.
type Dataset struct {
	ID       int64  `json:"id"`
	Name     string `json:"name,omitempty"`
	Slug     string `json:"slug,omitempty"`
	TeamID   int64  `json:"team_id,omitempty"`
	TeamSlug string `json:"team_slug,omitempty"`

	Instructions                      *string           `json:"instructions,omitempty"`
	AnnotationHotkeys                 map[string]string `json:"annotation_hotkeys,omitempty"`
	AnnotatorsCanCreateTags           *bool             `json:"annotators_can_create_tags,omitempty"`
	AnnotatorsCanInstantiateWorkflows *bool             `json:"annotators_can_instantiate_workflows,omitempty"`
	AnyoneCanDoubleAssign             *bool             `json:"anyone_can_double_assign,omitempty"`
	ReviewersCanAnnotate              *bool             `json:"reviewers_can_annotate,omitempty"`
	Public                            *bool             `json:"public,omitempty"`
	WorkSize                          *int64            `json:"work_size,omitempty"`
	WorkPrioritization                *string           `json:"work_prioritization,omitempty"`

	Archived   *bool            `json:"archived,omitempty"`
	ArchivedAt *strfmt.DateTime `json:"archived_at,omitempty"`

	NumItems       *int64   `json:"num_items,omitempty"`
	NumImages      *int64   `json:"num_images,omitempty"`
	NumVideos      *int64   `json:"num_videos,omitempty"`
	NumClasses     *int64   `json:"num_classes,omitempty"`
	NumAnnotations *int64   `json:"num_annotations,omitempty"`
	Progress       *float64 `json:"progress,omitempty"`

	Version                   *int64  `json:"version,omitempty"`
	OwnerID                   *int64  `json:"owner_id,omitempty"`
	ParentID                  *int64  `json:"parent_id,omitempty"`
	DefaultWorkflowTemplateID *int64  `json:"default_workflow_template_id,omitempty"`
	AnnotationClassIDs        []int64 `json:"annotation_class_ids,omitempty"`

	InsertedAt *strfmt.DateTime `json:"inserted_at,omitempty"`
	UpdatedAt  *strfmt.DateTime `json:"updated_at,omitempty"`
}

// Validate checks the identity of a decoded dataset.
func (m *Dataset) Validate(formats strfmt.Registry) error {
	if err := validate.Required("id", "body", m.ID); err != nil {
		return err
	}
	return nil
}

// InstructionsText returns the instructions, or "" when unset.
func (m *Dataset) InstructionsText() string {
	return swag.StringValue(m.Instructions)
}

// IsArchived returns true if the server reported the dataset as archived.
func (m *Dataset) IsArchived() bool {
	return swag.BoolValue(m.Archived)
}

// ToUpdate copies the writable fields of the dataset.
func (m *Dataset) ToUpdate() DatasetUpdate {
	u := DatasetUpdate{
		Name:                              m.Name,
		Instructions:                      m.Instructions,
		AnnotatorsCanCreateTags:           m.AnnotatorsCanCreateTags,
		AnnotatorsCanInstantiateWorkflows: m.AnnotatorsCanInstantiateWorkflows,
		AnyoneCanDoubleAssign:             m.AnyoneCanDoubleAssign,
		Public:                            m.Public,
		ReviewersCanAnnotate:              m.ReviewersCanAnnotate,
		WorkSize:                          m.WorkSize,
		WorkPrioritization:                m.WorkPrioritization,
	}
	if m.AnnotationHotkeys != nil {
		u.AnnotationHotkeys = make(map[string]string, len(m.AnnotationHotkeys))
		for k, v := range m.AnnotationHotkeys {
			u.AnnotationHotkeys[k] = v
		}
	}
	return u
}

// DatasetUpdate is the write payload of PUT datasets/{id}.
//
// The endpoint replaces every writable field, so all of them are sent;
// build updates from [Dataset.ToUpdate] to keep the fields you don't change.
// An empty Name is left out and keeps the current name.
type DatasetUpdate struct {
	Name                              string            `json:"name,omitempty"`
	Instructions                      *string           `json:"instructions"`
	AnnotationHotkeys                 map[string]string `json:"annotation_hotkeys"`
	AnnotatorsCanCreateTags           *bool             `json:"annotators_can_create_tags"`
	AnnotatorsCanInstantiateWorkflows *bool             `json:"annotators_can_instantiate_workflows"`
	AnyoneCanDoubleAssign             *bool             `json:"anyone_can_double_assign"`
	Public                            *bool             `json:"public"`
	ReviewersCanAnnotate              *bool             `json:"reviewers_can_annotate"`
	WorkSize                          *int64            `json:"work_size"`
	WorkPrioritization                *string           `json:"work_prioritization"`
}

// Validate checks the work size.
func (m *DatasetUpdate) Validate(formats strfmt.Registry) error {
	if m.WorkSize != nil {
		if err := validate.MinimumInt("work_size", "body", *m.WorkSize, 1, false); err != nil {
			return err
		}
	}
	return nil
}

type datasetCreate struct {
	Name string `json:"name"`
}

func (m *datasetCreate) Validate(formats strfmt.Registry) error {
	if err := validate.RequiredString("name", "body", m.Name); err != nil {
		return err
	}
	return nil
}

// ExportFormat is the annotation format of a dataset export.
type ExportFormat string

const (
	ExportFormatDarwinJSON2  ExportFormat = "darwin_json_2"
	ExportFormatJSON         ExportFormat = "json"
	ExportFormatXML          ExportFormat = "xml"
	ExportFormatCOCO         ExportFormat = "coco"
	ExportFormatCVAT         ExportFormat = "cvat"
	ExportFormatPascalVOC    ExportFormat = "pascal_voc"
	ExportFormatSemanticMask ExportFormat = "semantic-mask"
	ExportFormatInstanceMask ExportFormat = "instance-mask"
)

// IsKnown returns false for values this client does not recognize.
func (f ExportFormat) IsKnown() bool {
	switch f {
	case ExportFormatDarwinJSON2, ExportFormatJSON, ExportFormatXML, ExportFormatCOCO,
		ExportFormatCVAT, ExportFormatPascalVOC, ExportFormatSemanticMask, ExportFormatInstanceMask:
		return true
	}
	return false
}

// Export is a generated dataset export ("release").
type Export struct {
	Name        string           `json:"name"`
	DownloadURL string           `json:"download_url,omitempty"`
	Format      ExportFormat     `json:"format,omitempty"`
	Status      string           `json:"status,omitempty"`
	Latest      *bool            `json:"latest,omitempty"`
	Version     *int64           `json:"version,omitempty"`
	InsertedAt  *strfmt.DateTime `json:"inserted_at,omitempty"`
}

// Validate checks the identity of a decoded export.
func (m *Export) Validate(formats strfmt.Registry) error {
	if err := validate.RequiredString("name", "body", m.Name); err != nil {
		return err
	}
	return nil
}

// IsReady returns true once the export can be downloaded.
func (m *Export) IsReady() bool {
	return m.DownloadURL != ""
}

// ExportRequest describes a new export.
type ExportRequest struct {
	Name               string       `json:"name"`
	Format             ExportFormat `json:"format"`
	IncludeAuthorship  bool         `json:"include_authorship"`
	IncludeExportToken bool         `json:"include_export_token"`

	// Filters restricts the exported items; nil exports everything.
	Filters *Filter `json:"filters,omitempty"`
}

// Validate checks the request before it is sent.
func (m *ExportRequest) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.RequiredString("name", "body", m.Name); err != nil {
		res = append(res, err)
	}
	if err := validate.RequiredString("format", "body", string(m.Format)); err != nil {
		res = append(res, err)
	}
	return compose(res)
}

// DatasetsService handles dataset operations.
type DatasetsService struct {
	client *Client
}

// List returns the datasets of a team.
//
// The endpoint returns every dataset the API key can see; datasets whose
// team_slug names another team are dropped. Datasets without a team_slug
// are kept. An empty teamSlug keeps everything.
func (s *DatasetsService) List(ctx context.Context, teamSlug string) ([]Dataset, error) {
	var datasets []*Dataset
	if err := s.client.do(ctx, "datasets.list", http.MethodGet, "datasets", nil, nil, &datasets); err != nil {
		return nil, err
	}

	out := make([]Dataset, 0, len(datasets))
	for _, ds := range compact(datasets) {
		if teamSlug != "" && ds.TeamSlug != "" && ds.TeamSlug != teamSlug {
			continue
		}
		out = append(out, ds)
	}
	return out, nil
}

// Get returns the dataset with the given id.
func (s *DatasetsService) Get(ctx context.Context, id int64) (*Dataset, error) {
	const op = "datasets.get"
	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}

	var ds Dataset
	if err := s.client.do(ctx, op, http.MethodGet, "datasets/"+formatID(id), nil, nil, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Create creates an empty dataset in the API key's team.
func (s *DatasetsService) Create(ctx context.Context, name string) (*Dataset, error) {
	var ds Dataset
	if err := s.client.do(ctx, "datasets.create", http.MethodPost, "datasets", nil, &datasetCreate{Name: name}, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Update replaces the writable fields of a dataset. Name is required.
func (s *DatasetsService) Update(ctx context.Context, id int64, update DatasetUpdate) (*Dataset, error) {
	const op = "datasets.update"
	if err := validate.RequiredString("name", "body", update.Name); err != nil {
		return nil, newEncodeError(op, "name", "invalid request body", err)
	}
	return s.update(ctx, op, id, &update)
}

// UpdateInstructions sets the instructions of ds. The other writable fields
// are sent as they are in ds, so pass a freshly fetched dataset. A dataset
// decoded without a name keeps its name on the server.
func (s *DatasetsService) UpdateInstructions(ctx context.Context, ds *Dataset, instructions string) (*Dataset, error) {
	const op = "datasets.update_instructions"
	if ds == nil {
		return nil, newEncodeError(op, "", "dataset is required", nil)
	}

	update := ds.ToUpdate()
	update.Instructions = swag.String(instructions)
	return s.update(ctx, op, ds.ID, &update)
}

func (s *DatasetsService) update(ctx context.Context, op string, id int64, update *DatasetUpdate) (*Dataset, error) {
	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}

	var out Dataset
	if err := s.client.do(ctx, op, http.MethodPut, "datasets/"+formatID(id), nil, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Archive archives a dataset and returns its new state.
func (s *DatasetsService) Archive(ctx context.Context, id int64) (*Dataset, error) {
	const op = "datasets.archive"
	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}

	var out Dataset
	if err := s.client.do(ctx, op, http.MethodPut, "datasets/"+formatID(id)+"/archive", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetToNew moves the items of a dataset matched by filter back to the
// "new" status, detaching them from their workflow. An empty filter is
// rejected unless SelectAll is set.
func (s *DatasetsService) ResetToNew(ctx context.Context, id int64, filter Filter) error {
	const op = "datasets.reset_to_new"
	if err := requireID(op, "id", id); err != nil {
		return err
	}
	p := "datasets/" + formatID(id) + "/items/move_to_new"
	return s.client.do(ctx, op, http.MethodPut, p, nil, &resetToNewRequest{Filter: filter}, nil)
}

type resetToNewRequest struct {
	Filter Filter `json:"filter"`
}

func (m *resetToNewRequest) Validate(formats strfmt.Registry) error {
	return validateFilter("filter", &m.Filter)
}

// Workflow returns the workflow attached to ds, or nil when the team has
// none for it. Workflows are matched on the dataset id, or on the dataset
// name when the server leaves the id out.
func (s *DatasetsService) Workflow(ctx context.Context, teamSlug string, ds *Dataset) (*Workflow, error) {
	const op = "datasets.workflow"
	if ds == nil {
		return nil, newEncodeError(op, "", "dataset is required", nil)
	}

	workflows, err := s.client.Workflows.list(ctx, op, teamSlug, "")
	if err != nil {
		return nil, err
	}
	for i := range workflows {
		if workflows[i].AttachedTo(ds) {
			return &workflows[i], nil
		}
	}
	return nil, nil
}

// ListExports returns the exports of a dataset.
func (s *DatasetsService) ListExports(ctx context.Context, teamSlug, datasetSlug string) ([]Export, error) {
	const op = "datasets.list_exports"
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}
	if err := requireSlug(op, "dataset_slug", datasetSlug); err != nil {
		return nil, err
	}

	var exports []*Export
	if err := s.client.do(ctx, op, http.MethodGet, exportsPath(teamSlug, datasetSlug), nil, nil, &exports); err != nil {
		return nil, err
	}
	return compact(exports), nil
}

// GenerateExport starts a new export. Poll [DatasetsService.ListExports]
// until the export is ready.
func (s *DatasetsService) GenerateExport(ctx context.Context, teamSlug, datasetSlug string, req ExportRequest) error {
	const op = "datasets.generate_export"
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return err
	}
	if err := requireSlug(op, "dataset_slug", datasetSlug); err != nil {
		return err
	}
	return s.client.do(ctx, op, http.MethodPost, exportsPath(teamSlug, datasetSlug), nil, &req, nil)
}

func exportsPath(teamSlug, datasetSlug string) string {
	return "v2/teams/" + teamSlug + "/datasets/" + datasetSlug + "/exports"
}
