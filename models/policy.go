package models

import (
	"github.com/AliShafique28/task-management-system-1/errs"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The Authorize* functions are the pure policy checks run before any
// membership or task mutation. They operate on a loaded project snapshot
// and ids only, so the services apply them in order: the caller gate first,
// then the target-specific rule once the target is resolved.

// AuthorizeAdmin gates actions reserved for project admins: project edits,
// membership changes and task creation.
func (p *Project) AuthorizeAdmin(caller primitive.ObjectID) error {
	if !p.IsAdmin(caller) {
		return errs.Forbidden("Access denied. Only project admins can perform this action.")
	}
	return nil
}

// AuthorizeDelete gates project deletion: the creator only, not merely any
// admin.
func (p *Project) AuthorizeDelete(caller primitive.ObjectID) error {
	if !p.IsCreator(caller) {
		return errs.Forbidden("Only the project creator can delete this project")
	}
	return nil
}

// AuthorizeNewMember rejects adding a user who is already on the project.
func (p *Project) AuthorizeNewMember(target primitive.ObjectID) error {
	if p.IsMember(target) {
		return errs.Conflict("User is already a member of this project")
	}
	return nil
}

// AuthorizePromotion requires the target to be a member and not already an
// admin; promoting an admin is a conflict, never a silent no-op.
func (p *Project) AuthorizePromotion(target primitive.ObjectID) error {
	role, ok := p.RoleOf(target)
	if !ok {
		return errs.NotFound("User is not a member of this project")
	}
	if role == RoleAdmin {
		return errs.Conflict("User is already an admin")
	}
	return nil
}

// AuthorizeRemoval requires the target to be a member and never the
// creator, regardless of the target's role.
func (p *Project) AuthorizeRemoval(target primitive.ObjectID) error {
	if !p.IsMember(target) {
		return errs.NotFound("User is not a member of this project")
	}
	if p.IsCreator(target) {
		return errs.Forbidden("Cannot remove the project creator")
	}
	return nil
}

// AuthorizeAssignee requires a task's assignee to be a current member of
// the project. Checked at creation and reassignment only.
func (p *Project) AuthorizeAssignee(assignee primitive.ObjectID) error {
	if !p.IsMember(assignee) {
		return errs.Validation("Cannot assign task to user who is not a project member")
	}
	return nil
}
