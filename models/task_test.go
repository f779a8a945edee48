package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusTodo))
	assert.True(t, ValidStatus(StatusInProgress))
	assert.True(t, ValidStatus(StatusDone))

	assert.False(t, ValidStatus("pending"))
	assert.False(t, ValidStatus("DONE"))
	assert.False(t, ValidStatus(""))
}

func TestTaskVisibility(t *testing.T) {
	creator := primitive.NewObjectID()
	assignee := primitive.NewObjectID()
	otherMember := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	p := NewProject("Release", "", creator)
	p.Members = append(p.Members,
		Member{User: assignee, Role: RoleMember},
		Member{User: otherMember, Role: RoleMember},
	)

	task := &Task{ProjectID: p.ID, AssignedTo: assignee, CreatedBy: creator}

	// Admins see every task; plain members only their own assignments.
	assert.True(t, task.CanView(p, creator))
	assert.True(t, task.CanView(p, assignee))
	assert.False(t, task.CanView(p, otherMember))
	assert.False(t, task.CanView(p, outsider))
}

func TestTaskModifyPermissions(t *testing.T) {
	creator := primitive.NewObjectID()
	assignee := primitive.NewObjectID()
	otherMember := primitive.NewObjectID()

	p := NewProject("Release", "", creator)
	p.Members = append(p.Members,
		Member{User: assignee, Role: RoleMember},
		Member{User: otherMember, Role: RoleMember},
	)

	task := &Task{ProjectID: p.ID, AssignedTo: assignee, CreatedBy: creator}

	assert.True(t, task.CanModify(p, creator))
	assert.True(t, task.CanModify(p, assignee))
	assert.False(t, task.CanModify(p, otherMember))
}

func TestOnlyAssigneeMayChangeStatus(t *testing.T) {
	creator := primitive.NewObjectID()
	assignee := primitive.NewObjectID()

	task := &Task{AssignedTo: assignee, CreatedBy: creator}

	assert.True(t, task.IsAssignee(assignee))
	// The project admin is not the assignee and may not force a change.
	assert.False(t, task.IsAssignee(creator))
}

func TestStaleAssigneeKeepsAssignment(t *testing.T) {
	creator := primitive.NewObjectID()
	assignee := primitive.NewObjectID()

	p := NewProject("Release", "", creator)
	p.Members = append(p.Members, Member{User: assignee, Role: RoleMember})
	task := &Task{ProjectID: p.ID, AssignedTo: assignee}

	// Remove the assignee from the project; the task stays assigned but the
	// removed user loses visibility.
	p.Members = p.Members[:1]
	assert.False(t, p.IsMember(assignee))
	assert.True(t, task.IsAssignee(assignee))
	assert.False(t, task.CanView(p, assignee))
}
