package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewProjectCreatorIsSoleAdminMember(t *testing.T) {
	creator := primitive.NewObjectID()
	p := NewProject("Website Redesign", "Q3 marketing site", creator)

	require.Len(t, p.Members, 1)
	assert.Equal(t, creator, p.Members[0].User)
	assert.Equal(t, RoleAdmin, p.Members[0].Role)
	assert.True(t, p.IsMember(creator))
	assert.True(t, p.IsAdmin(creator))
	assert.True(t, p.IsCreator(creator))
	assert.Equal(t, creator, p.CreatedBy)
}

func TestIsMemberAndIsAdmin(t *testing.T) {
	creator := primitive.NewObjectID()
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	p := NewProject("Mobile App", "", creator)
	p.Members = append(p.Members, Member{User: member, Role: RoleMember})

	assert.True(t, p.IsMember(member))
	assert.False(t, p.IsAdmin(member))

	assert.False(t, p.IsMember(outsider))
	assert.False(t, p.IsAdmin(outsider))
}

func TestRoleOf(t *testing.T) {
	creator := primitive.NewObjectID()
	member := primitive.NewObjectID()

	p := NewProject("API Migration", "", creator)
	p.Members = append(p.Members, Member{User: member, Role: RoleMember})

	role, ok := p.RoleOf(creator)
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	role, ok = p.RoleOf(member)
	require.True(t, ok)
	assert.Equal(t, RoleMember, role)

	_, ok = p.RoleOf(primitive.NewObjectID())
	assert.False(t, ok)
}

func TestPromotedMemberBecomesAdmin(t *testing.T) {
	creator := primitive.NewObjectID()
	member := primitive.NewObjectID()

	p := NewProject("Data Pipeline", "", creator)
	p.Members = append(p.Members, Member{User: member, Role: RoleMember})
	assert.False(t, p.IsAdmin(member))

	for i := range p.Members {
		if p.Members[i].User == member {
			p.Members[i].Role = RoleAdmin
		}
	}

	assert.True(t, p.IsAdmin(member))
	// Admin role does not make the member the creator.
	assert.False(t, p.IsCreator(member))
}

func TestCreatorIdentityIsDistinctFromAdminRole(t *testing.T) {
	creator := primitive.NewObjectID()
	admin := primitive.NewObjectID()

	p := NewProject("Infra", "", creator)
	p.Members = append(p.Members, Member{User: admin, Role: RoleAdmin})

	// Both are admins, but only the creator may delete the project.
	assert.True(t, p.IsAdmin(creator))
	assert.True(t, p.IsAdmin(admin))
	assert.True(t, p.IsCreator(creator))
	assert.False(t, p.IsCreator(admin))
}
