package darwin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// AnnotationClass is a named, typed category used when annotating items.
type AnnotationClass struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	AnnotationTypes []AnnotationType `json:"annotation_types,omitempty"`
	Datasets        []ClassDataset   `json:"datasets,omitempty"`
	TeamID          int64            `json:"team_id,omitempty"`
	ImageURL        string           `json:"annotation_class_image_url,omitempty"`

	// Metadata holds per-type settings; "_color" is the display color.
	Metadata map[string]any `json:"metadata,omitempty"`

	InsertedAt *strfmt.DateTime `json:"inserted_at,omitempty"`
	UpdatedAt  *strfmt.DateTime `json:"updated_at,omitempty"`
}

// ClassDataset references a dataset an annotation class is enabled in.
type ClassDataset struct {
	ID int64 `json:"id"`
}

// Validate checks the identity of a decoded annotation class.
func (m *AnnotationClass) Validate(formats strfmt.Registry) error {
	if err := validate.Required("id", "body", m.ID); err != nil {
		return err
	}
	return nil
}

// Color returns the display color from the metadata, or "".
func (m *AnnotationClass) Color() string {
	c, _ := m.Metadata["_color"].(string)
	return c
}

// HasType returns true if the class supports annotation type t.
func (m *AnnotationClass) HasType(t AnnotationType) bool {
	for _, at := range m.AnnotationTypes {
		if at == t {
			return true
		}
	}
	return false
}

// InDataset returns true if the class is enabled in the dataset.
func (m *AnnotationClass) InDataset(datasetID int64) bool {
	for _, ds := range m.Datasets {
		if ds.ID == datasetID {
			return true
		}
	}
	return false
}

// ToInput copies the writable fields of the class.
func (m *AnnotationClass) ToInput() AnnotationClassInput {
	in := AnnotationClassInput{
		Name:            m.Name,
		Description:     swag.StringValue(m.Description),
		AnnotationTypes: append([]AnnotationType(nil), m.AnnotationTypes...),
		Datasets:        append([]ClassDataset(nil), m.Datasets...),
	}
	if m.Metadata != nil {
		in.Metadata = make(map[string]any, len(m.Metadata))
		for k, v := range m.Metadata {
			in.Metadata[k] = v
		}
	}
	return in
}

// AnnotationClassInput is the write payload for creating or updating an
// annotation class.
type AnnotationClassInput struct {
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	AnnotationTypes []AnnotationType `json:"annotation_types"`
	Datasets        []ClassDataset   `json:"datasets"`
	Metadata        map[string]any   `json:"metadata,omitempty"`
}

// Validate checks the payload before it is sent.
func (m *AnnotationClassInput) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.RequiredString("name", "body", m.Name); err != nil {
		res = append(res, err)
	}
	if err := validate.MinItems("annotation_types", "body", int64(len(m.AnnotationTypes)), 1); err != nil {
		res = append(res, err)
	}
	for i, t := range m.AnnotationTypes {
		if err := validate.RequiredString("annotation_types."+strconv.Itoa(i), "body", string(t)); err != nil {
			res = append(res, err)
		}
	}
	for i, ds := range m.Datasets {
		if err := validate.Required("datasets."+strconv.Itoa(i)+".id", "body", ds.ID); err != nil {
			res = append(res, err)
		}
	}
	return compose(res)
}

// TypeCount is the number of classes of one annotation type.
type TypeCount struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Count int64  `json:"count"`
}

// classList is the wire shape of teams/{slug}/annotation_classes.
type classList struct {
	AnnotationClasses []*AnnotationClass `json:"annotation_classes"`
	TypeCounts        []TypeCount        `json:"type_counts,omitempty"`
}

func (m *classList) Validate(formats strfmt.Registry) error {
	var res []error
	for i, c := range m.AnnotationClasses {
		if c == nil {
			continue
		}
		if err := c.Validate(formats); err != nil {
			res = append(res, nameValidation("annotation_classes."+strconv.Itoa(i), err))
		}
	}
	return compose(res)
}

// ClassListOptions narrows [ClassesService.List].
type ClassListOptions struct {
	// DatasetID keeps only the classes enabled in this dataset.
	DatasetID int64

	// IncludeTags also returns tag classes.
	IncludeTags bool
}

// ClassesService handles annotation class operations.
type ClassesService struct {
	client *Client
}

// List returns the annotation classes of a team.
func (s *ClassesService) List(ctx context.Context, teamSlug string, opts ClassListOptions) ([]AnnotationClass, error) {
	const op = "classes.list"
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}

	var query Query
	if opts.IncludeTags {
		query = query.Add("include_tags", "true")
	}
	if opts.DatasetID != 0 {
		query = query.AddInt("dataset_id", opts.DatasetID)
	}

	var list classList
	if err := s.client.do(ctx, op, http.MethodGet, classesPath(teamSlug), query, nil, &list); err != nil {
		return nil, err
	}

	classes := compact(list.AnnotationClasses)
	if opts.DatasetID == 0 {
		return classes, nil
	}
	out := classes[:0]
	for _, c := range classes {
		if c.InDataset(opts.DatasetID) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Get returns the annotation class with the given id.
func (s *ClassesService) Get(ctx context.Context, id int64) (*AnnotationClass, error) {
	const op = "classes.get"
	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}

	var class AnnotationClass
	if err := s.client.do(ctx, op, http.MethodGet, "annotation_classes/"+formatID(id), nil, nil, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create creates an annotation class in a team.
func (s *ClassesService) Create(ctx context.Context, teamSlug string, in AnnotationClassInput) (*AnnotationClass, error) {
	const op = "classes.create"
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}

	var class AnnotationClass
	if err := s.client.do(ctx, op, http.MethodPost, classesPath(teamSlug), nil, &in, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// Update replaces the writable fields of an annotation class.
func (s *ClassesService) Update(ctx context.Context, id int64, in AnnotationClassInput) (*AnnotationClass, error) {
	const op = "classes.update"
	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}

	var class AnnotationClass
	if err := s.client.do(ctx, op, http.MethodPut, "annotation_classes/"+formatID(id), nil, &in, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// Delete deletes an annotation class.
func (s *ClassesService) Delete(ctx context.Context, id int64) error {
	const op = "classes.delete"
	if err := requireID(op, "id", id); err != nil {
		return err
	}
	return s.client.do(ctx, op, http.MethodDelete, "annotation_classes/"+formatID(id), nil, nil, nil)
}

func classesPath(teamSlug string) string {
	return "teams/" + teamSlug + "/annotation_classes"
}
