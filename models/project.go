package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Member is one row of a project's embedded members list. User is stored as
// the bare ObjectID; membership comparisons always run on that id.
type Member struct {
	User    primitive.ObjectID `bson:"user" json:"user"`
	Role    Role               `bson:"role" json:"role"`
	AddedAt time.Time          `bson:"addedAt" json:"addedAt"`
}

type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	Members     []Member           `bson:"members" json:"members"`
	// Version guards membership mutations: updates match on {_id, version}
	// and increment it, so a concurrent write shows up as a conflict
	// instead of a silently dropped member.
	Version   int64     `bson:"version" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewProject builds a project with the creator as its first (and only)
// member, role admin.
func NewProject(name, description string, createdBy primitive.ObjectID) *Project {
	now := time.Now()
	return &Project{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		Members: []Member{
			{User: createdBy, Role: RoleAdmin, AddedAt: now},
		},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RoleOf returns the member's role, or false if userID is not a member.
func (p *Project) RoleOf(userID primitive.ObjectID) (Role, bool) {
	for _, m := range p.Members {
		if m.User == userID {
			return m.Role, true
		}
	}
	return "", false
}

// IsMember reports whether userID appears in the members list.
func (p *Project) IsMember(userID primitive.ObjectID) bool {
	_, ok := p.RoleOf(userID)
	return ok
}

// IsAdmin reports whether userID is a member with role admin.
func (p *Project) IsAdmin(userID primitive.ObjectID) bool {
	role, ok := p.RoleOf(userID)
	return ok && role == RoleAdmin
}

// IsCreator reports whether userID created the project. Only the creator may
// delete it, and the creator can never be removed from the members list.
func (p *Project) IsCreator(userID primitive.ObjectID) bool {
	return p.CreatedBy == userID
}

// MemberDetail is a members-list row with the user reference expanded.
type MemberDetail struct {
	User    UserSummary `json:"user"`
	Role    Role        `json:"role"`
	AddedAt time.Time   `json:"addedAt"`
}

// ProjectDetail is the project shape returned to clients, with user
// references expanded to summaries.
type ProjectDetail struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	CreatedBy   UserSummary        `json:"createdBy"`
	Members     []MemberDetail     `json:"members"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
