package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MemberRole is a user's role within one project. Roles are per-project;
// the same user can be an admin of one board and a viewer of another.
type MemberRole string

const (
	RoleAdmin          MemberRole = "admin"
	RoleProjectManager MemberRole = "project_manager"
	RoleMember         MemberRole = "member"
	RoleViewer         MemberRole = "viewer"
)

func (r MemberRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleMember, RoleViewer:
		return true
	}
	return false
}

// BoardColumn is one named stage of a project board. Tasks reference
// columns by name, not by id, so renames are remove+add.
type BoardColumn struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ColumnList is the ordered column set of a board, stored as JSONB.
// Slice order is display order.
type ColumnList []BoardColumn

// Scan implements sql.Scanner for ColumnList
func (c *ColumnList) Scan(value interface{}) error {
	if value == nil {
		*c = ColumnList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// Value implements driver.Valuer for ColumnList
func (c ColumnList) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return json.Marshal(c)
}

func (c ColumnList) Contains(name string) bool {
	for _, col := range c {
		if col.Name == name {
			return true
		}
	}
	return false
}

// Names returns the column names in display order.
func (c ColumnList) Names() []string {
	names := make([]string, len(c))
	for i, col := range c {
		names[i] = col.Name
	}
	return names
}

// DefaultColumns returns the board columns a new project starts with.
func DefaultColumns() ColumnList {
	return ColumnList{
		{Name: "To Do", Color: "#6b7280"},
		{Name: "In Progress", Color: "#3b82f6"},
		{Name: "Done", Color: "#22c55e"},
	}
}

// DoneColumn is the column whose membership marks a task completed.
const DoneColumn = "Done"

// ProjectSettings are per-board toggles stored as JSONB.
type ProjectSettings struct {
	AllowMembersToCreateTasks bool `json:"allowMembersToCreateTasks"`
	NotifyOnTaskMove          bool `json:"notifyOnTaskMove"`
}

// Scan implements sql.Scanner for ProjectSettings
func (p *ProjectSettings) Scan(value interface{}) error {
	if value == nil {
		*p = ProjectSettings{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Value implements driver.Valuer for ProjectSettings
func (p ProjectSettings) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func DefaultProjectSettings() ProjectSettings {
	return ProjectSettings{
		AllowMembersToCreateTasks: true,
		NotifyOnTaskMove:          true,
	}
}

type Project struct {
	ID          uuid.UUID       `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string          `gorm:"size:100;not null"`
	Slug        string          `gorm:"size:120;uniqueIndex;not null"`
	Description string          `gorm:"type:text"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Columns     ColumnList      `gorm:"type:jsonb;default:'[]'"`
	Settings    ProjectSettings `gorm:"type:jsonb;default:'{}'"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Owner   *User           `gorm:"foreignKey:OwnerID"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}

// ProjectMember links a user to a project with a role. One row per
// (project, user); duplicates are rejected at the service layer and by
// the composite unique index.
type ProjectMember struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_project_user"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_project_user;index"`
	Role      MemberRole `gorm:"size:20;not null;default:'member'"`
	JoinedAt  time.Time

	User *User `gorm:"foreignKey:UserID"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}

// RoleOf returns the member's role, or false if the user is not a member.
// Requires Members to be preloaded.
func (p *Project) RoleOf(userID uuid.UUID) (MemberRole, bool) {
	for _, m := range p.Members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// IsMember reports whether the user belongs to the project in any role.
func (p *Project) IsMember(userID uuid.UUID) bool {
	_, ok := p.RoleOf(userID)
	return ok
}

// AdminCount counts members holding the admin role. A project must always
// keep at least one.
func (p *Project) AdminCount() int {
	n := 0
	for _, m := range p.Members {
		if m.Role == RoleAdmin {
			n++
		}
	}
	return n
}

// HasColumn reports whether the named board column exists on this project.
func (p *Project) HasColumn(column string) bool {
	return p.Columns.Contains(column)
}
