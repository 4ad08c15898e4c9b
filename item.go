package darwin

import (
	"context"
	"net/http"
	"strconv"

	oaerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// Item is a single media asset tracked in a dataset.
type Item struct {
	ID               string       `json:"id"`
	DatasetID        int64        `json:"dataset_id,omitempty"`
	Name             string       `json:"name,omitempty"`
	Path             string       `json:"path,omitempty"`
	Status           ItemStatus   `json:"status,omitempty"`
	ProcessingStatus ItemStatus   `json:"processing_status,omitempty"`
	WorkflowStatus   StageType    `json:"workflow_status,omitempty"`
	Archived         *bool        `json:"archived,omitempty"`
	Priority         *int64       `json:"priority,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	SlotTypes        []SlotType   `json:"slot_types,omitempty"`
	Slots            []ItemSlot   `json:"slots,omitempty"`
	Layout           *ItemLayout  `json:"layout,omitempty"`
	Uploads          []ItemUpload `json:"uploads,omitempty"`

	// Cursor is the item's position in the listing it came from.
	Cursor string `json:"cursor,omitempty"`

	InsertedAt *strfmt.DateTime `json:"inserted_at,omitempty"`
	UpdatedAt  *strfmt.DateTime `json:"updated_at,omitempty"`
}

// Validate checks the identity of a decoded item.
func (m *Item) Validate(formats strfmt.Registry) error {
	if err := validate.RequiredString("id", "body", m.ID); err != nil {
		return err
	}
	return nil
}

// IsArchived returns true if the server reported the item as archived.
func (m *Item) IsArchived() bool {
	return swag.BoolValue(m.Archived)
}

// ItemSlot is one media file of an item.
type ItemSlot struct {
	ID            string         `json:"id,omitempty"`
	SlotName      string         `json:"slot_name,omitempty"`
	FileName      string         `json:"file_name,omitempty"`
	Type          SlotType       `json:"type,omitempty"`
	FPS           *float64       `json:"fps,omitempty"`
	IsExternal    *bool          `json:"is_external,omitempty"`
	Streamable    *bool          `json:"streamable,omitempty"`
	SizeBytes     *int64         `json:"size_bytes,omitempty"`
	TotalSections *int64         `json:"total_sections,omitempty"`
	UploadID      string         `json:"upload_id,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// ItemLayout describes how slots are arranged in the viewer.
type ItemLayout struct {
	Slots   []string `json:"slots,omitempty"`
	Type    string   `json:"type,omitempty"`
	Version *int64   `json:"version,omitempty"`
}

// ItemUpload is the processing record of one uploaded file.
type ItemUpload struct {
	UploadID         string         `json:"upload_id,omitempty"`
	Type             string         `json:"type,omitempty"`
	FileName         string         `json:"file_name,omitempty"`
	SlotName         string         `json:"slot_name,omitempty"`
	ProcessingStatus string         `json:"processing_status,omitempty"`
	ProcessingError  map[string]any `json:"processing_error,omitempty"`
	AsFrames         *bool          `json:"as_frames,omitempty"`
}

// ArchiveResult reports the outcome of a bulk archive.
type ArchiveResult struct {
	AffectedItemCount int64 `json:"affected_item_count"`
}

// CommandResult reports how many background commands a bulk item
// operation queued.
type CommandResult struct {
	CreatedCommands int64 `json:"created_commands"`
}

type archiveRequest struct {
	Filters Filter `json:"filters"`
}

func (m *archiveRequest) Validate(formats strfmt.Registry) error {
	return validateFilter("filters", &m.Filters)
}

// validateFilter refuses empty filters that would select a whole team.
func validateFilter(name string, f *Filter) error {
	if f.IsEmpty() && !swag.BoolValue(f.SelectAll) {
		return oaerrors.Required(name, "body", nil)
	}
	return nil
}

// StageFilter selects the items moved by [ItemsService.SetStage].
type StageFilter struct {
	DatasetIDs       []int64  `json:"dataset_ids"`
	SelectAll        bool     `json:"select_all"`
	WorkflowStageIDs []string `json:"workflow_stage_ids,omitempty"`
}

// SetStageRequest moves items to a workflow stage.
type SetStageRequest struct {
	Filters    StageFilter `json:"filters"`
	StageID    string      `json:"stage_id"`
	WorkflowID string      `json:"workflow_id"`
}

// Validate checks the request before it is sent.
func (m *SetStageRequest) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.RequiredString("stage_id", "body", m.StageID); err != nil {
		res = append(res, err)
	}
	if err := validate.RequiredString("workflow_id", "body", m.WorkflowID); err != nil {
		res = append(res, err)
	}
	if err := validate.MinItems("filters.dataset_ids", "body", int64(len(m.Filters.DatasetIDs)), 1); err != nil {
		res = append(res, err)
	}
	return compose(res)
}

// AssignFilter selects the items assigned by [ItemsService.Assign].
type AssignFilter struct {
	DatasetIDs []int64     `json:"dataset_ids"`
	ItemIDs    []string    `json:"item_ids,omitempty"`
	Statuses   []StageType `json:"statuses,omitempty"`
	SelectAll  bool        `json:"select_all"`
}

// AssignRequest assigns items to a user within a workflow.
type AssignRequest struct {
	Filters       AssignFilter `json:"filters"`
	AssigneeEmail string       `json:"assignee_email"`
	WorkflowID    string       `json:"workflow_id"`
}

// Validate checks the request before it is sent.
func (m *AssignRequest) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.RequiredString("assignee_email", "body", m.AssigneeEmail); err != nil {
		res = append(res, err)
	}
	if err := validate.RequiredString("workflow_id", "body", m.WorkflowID); err != nil {
		res = append(res, err)
	}
	if err := validate.MinItems("filters.dataset_ids", "body", int64(len(m.Filters.DatasetIDs)), 1); err != nil {
		res = append(res, err)
	}
	return compose(res)
}

// ExistingItem is an item whose files already live in external storage.
type ExistingItem struct {
	Name  string         `json:"name,omitempty"`
	Path  string         `json:"path"`
	Slots []ExistingSlot `json:"slots"`
}

// ExistingSlot points at one stored file of an [ExistingItem].
type ExistingSlot struct {
	SlotName            string         `json:"slot_name"`
	FileName            string         `json:"file_name"`
	StorageKey          string         `json:"storage_key"`
	StorageThumbnailKey string         `json:"storage_thumbnail_key,omitempty"`
	Type                SlotType       `json:"type,omitempty"`
	SizeBytes           int64          `json:"size_bytes,omitempty"`
	Metadata            map[string]any `json:"metadata,omitempty"`
}

// RegisterExistingRequest registers read-only items from external storage.
type RegisterExistingRequest struct {
	DatasetSlug string         `json:"dataset_slug"`
	StorageSlug string         `json:"storage_slug"`
	Items       []ExistingItem `json:"items"`
}

// Validate checks the request before it is sent.
func (m *RegisterExistingRequest) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.RequiredString("dataset_slug", "body", m.DatasetSlug); err != nil {
		res = append(res, err)
	}
	if err := validate.RequiredString("storage_slug", "body", m.StorageSlug); err != nil {
		res = append(res, err)
	}
	if err := validate.MinItems("items", "body", int64(len(m.Items)), 1); err != nil {
		res = append(res, err)
	}
	if err := validateSlice("items", m.Items, formats); err != nil {
		res = append(res, err)
	}
	return compose(res)
}

// Validate checks the item before it is sent.
func (m *ExistingItem) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.RequiredString("path", "body", m.Path); err != nil {
		res = append(res, err)
	}
	for i, slot := range m.Slots {
		if err := validate.RequiredString("slots."+strconv.Itoa(i)+".storage_key", "body", slot.StorageKey); err != nil {
			res = append(res, err)
		}
	}
	return compose(res)
}

// RegisteredItem is one item of a [RegistrationResult].
type RegisteredItem struct {
	ID     string         `json:"id,omitempty"`
	Name   string         `json:"name,omitempty"`
	Path   string         `json:"path,omitempty"`
	Reason string         `json:"reason,omitempty"`
	Slots  []ExistingSlot `json:"slots,omitempty"`
}

// RegistrationResult lists accepted and blocked items.
type RegistrationResult struct {
	Items        []RegisteredItem `json:"items"`
	BlockedItems []RegisteredItem `json:"blocked_items"`
}

// ItemsService handles dataset item operations.
type ItemsService struct {
	client *Client
}

// List returns one page of the items of a dataset. It never follows pages;
// pass [Page.NextRequest] back to fetch the next one.
func (s *ItemsService) List(ctx context.Context, teamSlug string, datasetID int64, req PageRequest) (*Page[Item], error) {
	const op = "items.list"
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}
	if err := requireID(op, "dataset_id", datasetID); err != nil {
		return nil, err
	}

	query := Query{}.AddInt("dataset_ids", datasetID)
	return listPage[Item](ctx, s.client, op, itemsPath(teamSlug), query, req)
}

// Get returns the item with the given id.
func (s *ItemsService) Get(ctx context.Context, teamSlug, id string) (*Item, error) {
	const op = "items.get"
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}
	if err := requireSlug(op, "id", id); err != nil {
		return nil, err
	}

	var item Item
	if err := s.client.do(ctx, op, http.MethodGet, itemsPath(teamSlug)+"/"+id, nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Archive archives every item matched by filter. An empty filter is
// rejected unless SelectAll is set.
func (s *ItemsService) Archive(ctx context.Context, teamSlug string, filter Filter) (*ArchiveResult, error) {
	const op = "items.archive"
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}

	var out ArchiveResult
	if err := s.client.do(ctx, op, http.MethodPost, itemsPath(teamSlug)+"/archive", nil, &archiveRequest{Filters: filter}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetStage moves the selected items to a workflow stage.
func (s *ItemsService) SetStage(ctx context.Context, teamSlug string, req SetStageRequest) (*CommandResult, error) {
	return s.command(ctx, "items.set_stage", teamSlug, "stage", &req)
}

// Assign assigns the selected items to a user.
func (s *ItemsService) Assign(ctx context.Context, teamSlug string, req AssignRequest) (*CommandResult, error) {
	return s.command(ctx, "items.assign", teamSlug, "assign", &req)
}

func (s *ItemsService) command(ctx context.Context, op, teamSlug, action string, body any) (*CommandResult, error) {
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}

	var out CommandResult
	if err := s.client.do(ctx, op, http.MethodPost, itemsPath(teamSlug)+"/"+action, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterExisting registers items whose files already live in a storage
// bucket connected to the team.
func (s *ItemsService) RegisterExisting(ctx context.Context, teamSlug string, req RegisterExistingRequest) (*RegistrationResult, error) {
	const op = "items.register_existing"
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}

	var out RegistrationResult
	if err := s.client.do(ctx, op, http.MethodPost, itemsPath(teamSlug)+"/register_existing_readonly", nil, &req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func itemsPath(teamSlug string) string {
	return "v2/teams/" + teamSlug + "/items"
}
