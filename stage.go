package darwin

import (
	"reflect"
	"sort"
	"strconv"

	oaerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
	"github.com/go-viper/mapstructure/v2"
)

// Edge names used when linking stages.
const (
	EdgeDefault = "default"
	EdgeApprove = "approve"
	EdgeReject  = "reject"
)

// WorkflowStage is one step of a workflow.
type WorkflowStage struct {
	ID   string    `json:"id"`
	Name string    `json:"name,omitempty"`
	Type StageType `json:"type"`

	// Position is the stage's ordinal within its workflow. It is not on
	// the wire: decoding assigns it from array order and writes send stages
	// sorted by it.
	Position int `json:"-"`

	Config          StageConfig      `json:"config"`
	Edges           []StageEdge      `json:"edges"`
	AssignableUsers []AssignableUser `json:"assignable_users"`
}

// Validate checks the identity of a decoded stage.
func (m *WorkflowStage) Validate(formats strfmt.Registry) error {
	if err := validate.RequiredString("id", "body", m.ID); err != nil {
		return err
	}
	return nil
}

// Edge returns the outgoing edge with the given name, or nil.
func (m *WorkflowStage) Edge(name string) *StageEdge {
	for i := range m.Edges {
		if m.Edges[i].Name == name {
			return &m.Edges[i]
		}
	}
	return nil
}

// StageEdge connects two stages.
type StageEdge struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	SourceStageID string `json:"source_stage_id"`
	TargetStageID string `json:"target_stage_id"`
}

// AssignableUser is a user who may work on a stage.
type AssignableUser struct {
	StageID string `json:"stage_id,omitempty"`
	UserID  int64  `json:"user_id"`
}

// StageConfig is the stage-type-specific configuration document. Its shape
// varies by stage type and API version, so it is kept as decoded; keys this
// client does not know survive a read-modify-write cycle untouched.
type StageConfig map[string]any

// StageSettings is a typed view of the commonly used [StageConfig] keys.
// Which fields are meaningful depends on the stage type.
type StageSettings struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`

	Initial            *bool   `json:"initial,omitempty"`
	DatasetID          *int64  `json:"dataset_id,omitempty"`
	Readonly           *bool   `json:"readonly,omitempty"`
	Skippable          *bool   `json:"skippable,omitempty"`
	AssignableTo       *string `json:"assignable_to,omitempty"`
	AutoInstantiate    *bool   `json:"auto_instantiate,omitempty"`
	IncludeAnnotations *bool   `json:"include_annotations,omitempty"`
	AllowedClassIDs    []int64 `json:"allowed_class_ids,omitempty"`
	AnnotationGroupID  *string `json:"annotation_group_id,omitempty"`

	// Model stages.
	ModelID   *string  `json:"model_id,omitempty"`
	ModelType *string  `json:"model_type,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`

	// Webhook stages.
	URL                 *string `json:"url,omitempty"`
	AuthorizationHeader *string `json:"authorization_header,omitempty"`
	RetryIfFails        *bool   `json:"retry_if_fails,omitempty"`

	// Consensus stages.
	IOUThresholds    map[string]any `json:"iou_thresholds,omitempty"`
	ParallelStageIDs []string       `json:"parallel_stage_ids,omitempty"`
	TestStageID      *string        `json:"test_stage_id,omitempty"`
	ChampionStageID  *string        `json:"champion_stage_id,omitempty"`

	// Logic stages.
	Rules        []any `json:"rules,omitempty"`
	ClassMapping []any `json:"class_mapping,omitempty"`

	// Extra holds every key without a typed field above.
	Extra map[string]any `json:",remain"`
}

func newSettingsDecoder(result any) (*mapstructure.Decoder, error) {
	return mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           result,
	})
}

// Settings decodes the typed view of the configuration.
//
// A key whose value has the wrong shape fails with a KindDecode error
// whose Path is "config".
func (c StageConfig) Settings() (*StageSettings, error) {
	var s StageSettings
	dec, err := newSettingsDecoder(&s)
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(map[string]any(c)); err != nil {
		return nil, &Error{Kind: KindDecode, Op: "stage.settings", Path: "config", Message: "invalid stage config", Cause: err}
	}
	return &s, nil
}

// WithSettings returns a copy of c with the non-empty fields of s set.
// Keys of c that s does not mention are kept.
func (c StageConfig) WithSettings(s StageSettings) (StageConfig, error) {
	fields := map[string]any{}
	dec, err := newSettingsDecoder(&fields)
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(s); err != nil {
		return nil, &Error{Kind: KindEncode, Op: "stage.settings", Path: "config", Message: "invalid stage settings", Cause: err}
	}

	out := make(StageConfig, len(c)+len(fields))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range fields {
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				continue
			}
			v = rv.Elem().Interface()
		}
		out[k] = v
	}
	return out, nil
}

// orderStages returns a copy of stages sorted by Position, with nil
// collections replaced by empty ones so they encode as [] and {}.
func orderStages(stages []WorkflowStage) []WorkflowStage {
	out := make([]WorkflowStage, len(stages))
	copy(out, stages)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	for i := range out {
		if out[i].Config == nil {
			out[i].Config = StageConfig{}
		}
		if out[i].Edges == nil {
			out[i].Edges = []StageEdge{}
		}
		if out[i].AssignableUsers == nil {
			out[i].AssignableUsers = []AssignableUser{}
		}
	}
	return out
}

// stageGraphErrors checks a stage list in position order: every stage has
// a unique id, positions run 0..n-1, and every edge starts at its own stage
// and ends at a stage of the list. Each problem names its path.
func stageGraphErrors(stages []WorkflowStage) []error {
	var res []error

	ids := make(map[string]bool, len(stages))
	known := make([]any, 0, len(stages))
	for i, s := range stages {
		p := "stages." + strconv.Itoa(i)
		if err := validate.RequiredString(p+".id", "body", s.ID); err != nil {
			res = append(res, err)
		} else if ids[s.ID] {
			res = append(res, oaerrors.DuplicateItems(p+".id", "body"))
		} else {
			ids[s.ID] = true
			known = append(known, s.ID)
		}

		switch {
		case s.Position > i:
			res = append(res, validate.MaximumInt(p+".position", "body", int64(s.Position), int64(i), false))
		case s.Position < i:
			res = append(res, validate.MinimumInt(p+".position", "body", int64(s.Position), int64(i), false))
		}
	}

	for i, s := range stages {
		for j, e := range s.Edges {
			p := "stages." + strconv.Itoa(i) + ".edges." + strconv.Itoa(j)
			if e.SourceStageID != "" && e.SourceStageID != s.ID {
				res = append(res, oaerrors.EnumFail(p+".source_stage_id", "body", e.SourceStageID, []any{s.ID}))
			}
			if !ids[e.TargetStageID] {
				res = append(res, oaerrors.EnumFail(p+".target_stage_id", "body", e.TargetStageID, known))
			}
		}
	}
	return res
}
