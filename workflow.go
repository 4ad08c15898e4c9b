package darwin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Workflow is an ordered pipeline of stages owned by a team.
//
// A workflow with no stages is a valid draft but cannot be activated.
type Workflow struct {
	ID         string            `json:"id"`
	Name       string            `json:"name,omitempty"`
	TeamID     int64             `json:"team_id,omitempty"`
	Dataset    *WorkflowDataset  `json:"dataset,omitempty"`
	Progress   *WorkflowProgress `json:"progress,omitempty"`
	Stages     []WorkflowStage   `json:"stages"`
	Thumbnails json.RawMessage   `json:"thumbnails,omitempty"`
	InsertedAt *strfmt.DateTime  `json:"inserted_at,omitempty"`
	UpdatedAt  *strfmt.DateTime  `json:"updated_at,omitempty"`
}

// WorkflowDataset is the dataset a workflow is attached to.
type WorkflowDataset struct {
	ID           int64  `json:"id"`
	Name         string `json:"name,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// WorkflowProgress counts the workflow's items by state.
type WorkflowProgress struct {
	Complete   int64 `json:"complete"`
	Idle       int64 `json:"idle"`
	InProgress int64 `json:"in_progress"`
	Total      int64 `json:"total"`
}

// UnmarshalJSON decodes a workflow and numbers its stages in array order.
func (w *Workflow) UnmarshalJSON(data []byte) error {
	type plain Workflow
	if err := json.Unmarshal(data, (*plain)(w)); err != nil {
		return err
	}
	for i := range w.Stages {
		w.Stages[i].Position = i
	}
	return nil
}

// Validate checks the identity of a decoded workflow and its stages.
func (w *Workflow) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.RequiredString("id", "body", w.ID); err != nil {
		res = append(res, err)
	}
	if err := validateSlice("stages", w.Stages, formats); err != nil {
		res = append(res, err)
	}
	return compose(res)
}

// ValidateGraph reports every structural problem of the stage graph:
// duplicate or missing stage ids, non-contiguous positions, and edges that
// point at stages outside the workflow.
func (w *Workflow) ValidateGraph() error {
	var result *multierror.Error
	for _, err := range stageGraphErrors(orderStages(w.Stages)) {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// CanActivate returns true if the workflow has at least one stage and a
// valid stage graph.
func (w *Workflow) CanActivate() bool {
	return len(w.Stages) > 0 && w.ValidateGraph() == nil
}

// AttachedTo returns true if the workflow runs on ds.
func (w *Workflow) AttachedTo(ds *Dataset) bool {
	if w.Dataset == nil || ds == nil {
		return false
	}
	if w.Dataset.ID != 0 && ds.ID != 0 {
		return w.Dataset.ID == ds.ID
	}
	return ds.Name != "" && w.Dataset.Name == ds.Name
}

// Stage returns the stage with the given id, or nil.
func (w *Workflow) Stage(id string) *WorkflowStage {
	for i := range w.Stages {
		if w.Stages[i].ID == id {
			return &w.Stages[i]
		}
	}
	return nil
}

// StagesOfType returns the stages of type t in position order.
func (w *Workflow) StagesOfType(t StageType) []WorkflowStage {
	var out []WorkflowStage
	for _, s := range orderStages(w.Stages) {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// ToInput copies the writable fields of the workflow.
func (w *Workflow) ToInput() WorkflowInput {
	return WorkflowInput{Name: w.Name, Stages: orderStages(w.Stages)}
}

// WorkflowInput is the write payload for creating a workflow.
type WorkflowInput struct {
	Name   string          `json:"name"`
	Stages []WorkflowStage `json:"stages"`
}

// Validate checks the name and the stage graph before the payload is sent.
func (m *WorkflowInput) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.RequiredString("name", "body", m.Name); err != nil {
		res = append(res, err)
	}
	res = append(res, stageGraphErrors(m.Stages)...)
	return compose(res)
}

type stagesUpdate struct {
	Stages []WorkflowStage `json:"stages"`
}

func (m *stagesUpdate) Validate(formats strfmt.Registry) error {
	return compose(stageGraphErrors(m.Stages))
}

// WorkflowBuilder assembles the stages of a new workflow.
//
// Stages get generated ids and consecutive positions in the order they are
// added. Build links every stage that has no outgoing edge to the next one:
// review stages get an "approve" edge forward and a "reject" edge back to
// the closest annotate stage, other non-terminal stages a "default" edge.
//
//	b := darwin.NewWorkflowBuilder("triage").
//	    AddStage(darwin.StageTypeAnnotate, "Annotate", nil).
//	    AddStage(darwin.StageTypeReview, "Review", nil).
//	    AddStage(darwin.StageTypeComplete, "Complete", nil)
//	wf, err := client.Teams.CreateWorkflow(ctx, "my-team", b)
type WorkflowBuilder struct {
	name   string
	stages []WorkflowStage
	errs   []error
}

// NewWorkflowBuilder starts a workflow with the given name.
func NewWorkflowBuilder(name string) *WorkflowBuilder {
	return &WorkflowBuilder{name: name}
}

// AddStage appends a stage. A nil config is sent as an empty object.
func (b *WorkflowBuilder) AddStage(t StageType, name string, config StageConfig) *WorkflowBuilder {
	b.stages = append(b.stages, WorkflowStage{
		ID:       uuid.NewString(),
		Name:     name,
		Type:     t,
		Position: len(b.stages),
		Config:   config,
	})
	return b
}

// Connect adds an edge named edge from the stage at position from to the
// stage at position to. Out-of-range positions make Build fail.
func (b *WorkflowBuilder) Connect(from, to int, edge string) *WorkflowBuilder {
	last := int64(len(b.stages) - 1)
	for _, pos := range []int{from, to} {
		switch {
		case pos < 0:
			b.errs = append(b.errs, validate.MinimumInt("stages.position", "body", int64(pos), 0, false))
			return b
		case int64(pos) > last:
			b.errs = append(b.errs, validate.MaximumInt("stages.position", "body", int64(pos), last, false))
			return b
		}
	}
	b.stages[from].Edges = append(b.stages[from].Edges, newEdge(edge, b.stages[from].ID, b.stages[to].ID))
	return b
}

// Stages returns a copy of the stages added so far, without generated edges.
func (b *WorkflowBuilder) Stages() []WorkflowStage {
	return orderStages(b.stages)
}

// Build links the stages and validates the result. Failures are KindEncode
// errors naming the offending path.
func (b *WorkflowBuilder) Build() (*WorkflowInput, error) {
	const op = "workflows.build"

	stages := orderStages(b.stages)
	for i := range stages {
		stages[i].Edges = append([]StageEdge{}, stages[i].Edges...)
	}
	for i := range stages {
		if len(stages[i].Edges) > 0 || stages[i].Type.IsTerminal() || i+1 >= len(stages) {
			continue
		}
		cur, next := stages[i].ID, stages[i+1].ID
		if stages[i].Type == StageTypeReview {
			stages[i].Edges = append(stages[i].Edges, newEdge(EdgeApprove, cur, next))
			if back := previousOfType(stages, i, StageTypeAnnotate); back >= 0 {
				stages[i].Edges = append(stages[i].Edges, newEdge(EdgeReject, cur, stages[back].ID))
			}
			continue
		}
		stages[i].Edges = append(stages[i].Edges, newEdge(EdgeDefault, cur, next))
	}

	in := &WorkflowInput{Name: b.name, Stages: stages}
	var res []error
	res = append(res, b.errs...)
	if err := in.Validate(strfmt.Default); err != nil {
		res = append(res, err)
	}
	if err := compose(res); err != nil {
		return nil, newEncodeError(op, validationPath(err), "invalid workflow", err)
	}
	return in, nil
}

func newEdge(name, source, target string) StageEdge {
	return StageEdge{
		ID:            uuid.NewString(),
		Name:          name,
		SourceStageID: source,
		TargetStageID: target,
	}
}

func previousOfType(stages []WorkflowStage, before int, t StageType) int {
	for i := before - 1; i >= 0; i-- {
		if stages[i].Type == t {
			return i
		}
	}
	return -1
}

// WorkflowsService handles workflow operations.
type WorkflowsService struct {
	client *Client
}

// List returns the workflows of a team. A non-empty nameContains keeps only
// workflows whose name contains it.
func (s *WorkflowsService) List(ctx context.Context, teamSlug, nameContains string) ([]Workflow, error) {
	return s.list(ctx, "workflows.list", teamSlug, nameContains)
}

func (s *WorkflowsService) list(ctx context.Context, op, teamSlug, nameContains string) ([]Workflow, error) {
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}

	var query Query
	if nameContains != "" {
		query = query.Add("name_contains", nameContains)
	}

	var workflows []*Workflow
	if err := s.client.do(ctx, op, http.MethodGet, workflowsPath(teamSlug), query, nil, &workflows); err != nil {
		return nil, err
	}
	return compact(workflows), nil
}

// Get returns the workflow with the given id, stages in position order.
func (s *WorkflowsService) Get(ctx context.Context, teamSlug, id string) (*Workflow, error) {
	const op = "workflows.get"
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}
	if err := requireSlug(op, "id", id); err != nil {
		return nil, err
	}

	var wf Workflow
	if err := s.client.do(ctx, op, http.MethodGet, workflowsPath(teamSlug)+"/"+id, nil, nil, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

// Create creates a workflow from the builder's stages, in order.
func (s *WorkflowsService) Create(ctx context.Context, teamSlug string, b *WorkflowBuilder) (*Workflow, error) {
	return s.create(ctx, "workflows.create", teamSlug, b)
}

func (s *WorkflowsService) create(ctx context.Context, op, teamSlug string, b *WorkflowBuilder) (*Workflow, error) {
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, newEncodeError(op, "", "workflow builder is required", nil)
	}
	in, err := b.Build()
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Op = op
		}
		return nil, err
	}

	var wf Workflow
	if err := s.client.do(ctx, op, http.MethodPost, workflowsPath(teamSlug), nil, in, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

// UpdateStages replaces the stages of a workflow. Stages are sent sorted by
// Position; positions must run 0..n-1 without gaps or repeats.
func (s *WorkflowsService) UpdateStages(ctx context.Context, teamSlug, id string, stages []WorkflowStage) (*Workflow, error) {
	const op = "workflows.update_stages"
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}
	if err := requireSlug(op, "id", id); err != nil {
		return nil, err
	}

	body := &stagesUpdate{Stages: orderStages(stages)}
	var wf Workflow
	if err := s.client.do(ctx, op, http.MethodPut, workflowsPath(teamSlug)+"/"+id, nil, body, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

func workflowsPath(teamSlug string) string {
	return "v2/teams/" + teamSlug + "/workflows"
}
