package models

import (
	"testing"

	"github.com/AliShafique28/task-management-system-1/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func memberProject() (*Project, primitive.ObjectID, primitive.ObjectID) {
	creator := primitive.NewObjectID()
	member := primitive.NewObjectID()
	p := NewProject("Release", "", creator)
	p.Members = append(p.Members, Member{User: member, Role: RoleMember})
	return p, creator, member
}

func TestAuthorizeAdmin(t *testing.T) {
	p, creator, member := memberProject()

	assert.NoError(t, p.AuthorizeAdmin(creator))

	err := p.AuthorizeAdmin(member)
	require.Error(t, err)
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))

	err = p.AuthorizeAdmin(primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))
}

func TestAuthorizeDeleteCreatorOnly(t *testing.T) {
	p, creator, member := memberProject()

	// Another admin still may not delete; only the creator can.
	for i := range p.Members {
		if p.Members[i].User == member {
			p.Members[i].Role = RoleAdmin
		}
	}

	assert.NoError(t, p.AuthorizeDelete(creator))

	err := p.AuthorizeDelete(member)
	require.Error(t, err)
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))
}

func TestAuthorizeNewMemberRejectsDuplicates(t *testing.T) {
	p, creator, member := memberProject()

	assert.NoError(t, p.AuthorizeNewMember(primitive.NewObjectID()))

	err := p.AuthorizeNewMember(member)
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))

	// The creator is a member too and equally a duplicate.
	err = p.AuthorizeNewMember(creator)
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestAuthorizePromotion(t *testing.T) {
	p, creator, member := memberProject()

	assert.NoError(t, p.AuthorizePromotion(member))

	err := p.AuthorizePromotion(primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	// Promoting someone already admin is a conflict, not a no-op.
	err = p.AuthorizePromotion(creator)
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestAuthorizeRemoval(t *testing.T) {
	p, creator, member := memberProject()

	assert.NoError(t, p.AuthorizeRemoval(member))

	err := p.AuthorizeRemoval(primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	// The creator can never be removed, whatever their role.
	err = p.AuthorizeRemoval(creator)
	require.Error(t, err)
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))
}

func TestAuthorizeAssigneeMustBeMember(t *testing.T) {
	p, creator, member := memberProject()

	assert.NoError(t, p.AuthorizeAssignee(member))
	assert.NoError(t, p.AuthorizeAssignee(creator))

	err := p.AuthorizeAssignee(primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestMembershipRoundTrip(t *testing.T) {
	p, creator, member := memberProject()

	require.NoError(t, p.AuthorizePromotion(member))
	for i := range p.Members {
		if p.Members[i].User == member {
			p.Members[i].Role = RoleAdmin
		}
	}
	assert.True(t, p.IsAdmin(member))

	// The promoted admin can be removed; the creator still cannot.
	assert.NoError(t, p.AuthorizeRemoval(member))
	err := p.AuthorizeRemoval(creator)
	require.Error(t, err)
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))
}
