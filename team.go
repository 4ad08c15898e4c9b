package darwin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Team is a Darwin team. Datasets and workflows belong to a team.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`

	// DatasetsDir is the local download directory configured for the team,
	// when the server reports one.
	DatasetsDir string `json:"datasets_dir,omitempty"`

	InsertedAt *strfmt.DateTime `json:"inserted_at,omitempty"`
}

// Validate checks the identity of a decoded team.
func (m *Team) Validate(formats strfmt.Registry) error {
	if err := validate.Required("id", "body", m.ID); err != nil {
		return err
	}
	return nil
}

// TeamMember is a user's membership in a team.
type TeamMember struct {
	ID        int64    `json:"id"`
	UserID    int64    `json:"user_id,omitempty"`
	TeamID    int64    `json:"team_id,omitempty"`
	Email     string   `json:"email,omitempty"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Role      TeamRole `json:"role,omitempty"`
}

// Validate checks the identity of a decoded membership.
func (m *TeamMember) Validate(formats strfmt.Registry) error {
	if err := validate.Required("id", "body", m.ID); err != nil {
		return err
	}
	return nil
}

// FullName joins the first and last names that are set.
func (m *TeamMember) FullName() string {
	switch {
	case m.FirstName == "":
		return m.LastName
	case m.LastName == "":
		return m.FirstName
	default:
		return m.FirstName + " " + m.LastName
	}
}

// TeamsService handles team operations.
type TeamsService struct {
	client *Client
}

// List returns the teams visible to the API key.
func (s *TeamsService) List(ctx context.Context) ([]Team, error) {
	var teams []*Team
	if err := s.client.do(ctx, "teams.list", http.MethodGet, "teams", nil, nil, &teams); err != nil {
		return nil, err
	}
	return compact(teams), nil
}

// Get returns the team with the given slug.
//
// An unknown slug fails with a KindHTTPStatus error matching [ErrNotFound].
func (s *TeamsService) Get(ctx context.Context, slug string) (*Team, error) {
	const op = "teams.get"
	if err := requireSlug(op, "slug", slug); err != nil {
		return nil, err
	}

	var team Team
	if err := s.client.do(ctx, op, http.MethodGet, "teams/"+slug, nil, nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// CreateWorkflow creates a workflow owned by the team.
func (s *TeamsService) CreateWorkflow(ctx context.Context, slug string, b *WorkflowBuilder) (*Workflow, error) {
	return s.client.Workflows.create(ctx, "teams.create_workflow", slug, b)
}

// ListMemberships returns the members of the team the API key belongs to.
func (s *TeamsService) ListMemberships(ctx context.Context) ([]TeamMember, error) {
	return s.listMemberships(ctx, "teams.list_memberships")
}

// FindMembersByEmail returns the members whose email contains email.
// Matching is case-insensitive.
func (s *TeamsService) FindMembersByEmail(ctx context.Context, email string) ([]TeamMember, error) {
	const op = "teams.find_members_by_email"
	if err := validation.Validate(email, validation.Required); err != nil {
		return nil, newEncodeError(op, "email", "email "+err.Error(), err)
	}

	members, err := s.listMemberships(ctx, op)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(email)
	out := members[:0]
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Email), needle) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *TeamsService) listMemberships(ctx context.Context, op string) ([]TeamMember, error) {
	var members []*TeamMember
	if err := s.client.do(ctx, op, http.MethodGet, "memberships", nil, nil, &members); err != nil {
		return nil, err
	}
	return compact(members), nil
}
