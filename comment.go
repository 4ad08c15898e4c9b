package darwin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// BoundingBox locates a comment thread on an item, in pixels.
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// CommentBody is the text of one comment.
type CommentBody struct {
	Body string `json:"body"`
}

// CommentThread opens a new comment thread on an item slot.
type CommentThread struct {
	BoundingBox BoundingBox   `json:"bounding_box"`
	Comments    []CommentBody `json:"comments"`
	SlotName    string        `json:"slot_name"`
}

// Validate checks the thread before it is sent.
func (m *CommentThread) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.RequiredString("slot_name", "body", m.SlotName); err != nil {
		res = append(res, err)
	}
	if err := validate.MinItems("comments", "body", int64(len(m.Comments)), 1); err != nil {
		res = append(res, err)
	}
	for i, c := range m.Comments {
		if err := validate.RequiredString("comments."+strconv.Itoa(i)+".body", "body", c.Body); err != nil {
			res = append(res, err)
		}
	}
	return compose(res)
}

// Comment is one comment of a thread.
type Comment struct {
	ID              string           `json:"id,omitempty"`
	AuthorID        int64            `json:"author_id,omitempty"`
	Body            string           `json:"body,omitempty"`
	CommentThreadID string           `json:"comment_thread_id,omitempty"`
	CreatedBySystem *bool            `json:"created_by_system,omitempty"`
	InsertedAt      *strfmt.DateTime `json:"inserted_at,omitempty"`
	UpdatedAt       *strfmt.DateTime `json:"updated_at,omitempty"`
}

// CommentThreadResult is a comment thread as stored by the server.
type CommentThreadResult struct {
	ID            string           `json:"id"`
	AuthorID      int64            `json:"author_id,omitempty"`
	DatasetItemID string           `json:"dataset_item_id,omitempty"`
	SlotName      string           `json:"slot_name,omitempty"`
	BoundingBox   *BoundingBox     `json:"bounding_box,omitempty"`
	CommentCount  int64            `json:"comment_count,omitempty"`
	FirstComment  *Comment         `json:"first_comment,omitempty"`
	Resolved      *bool            `json:"resolved,omitempty"`
	LastCommentAt *strfmt.DateTime `json:"last_comment_at,omitempty"`
	InsertedAt    *strfmt.DateTime `json:"inserted_at,omitempty"`
	UpdatedAt     *strfmt.DateTime `json:"updated_at,omitempty"`
}

// Validate checks the identity of a decoded thread.
func (m *CommentThreadResult) Validate(formats strfmt.Registry) error {
	if err := validate.RequiredString("id", "body", m.ID); err != nil {
		return err
	}
	return nil
}

// AddCommentThread opens a comment thread on an item.
func (s *ItemsService) AddCommentThread(ctx context.Context, teamSlug, itemID string, thread CommentThread) (*CommentThreadResult, error) {
	const op = "items.add_comment_thread"
	if err := requireSlug(op, "team_slug", teamSlug); err != nil {
		return nil, err
	}
	if err := requireSlug(op, "item_id", itemID); err != nil {
		return nil, err
	}

	var out CommentThreadResult
	p := itemsPath(teamSlug) + "/" + itemID + "/comment_threads"
	if err := s.client.do(ctx, op, http.MethodPost, p, nil, &thread, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
