package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// ValidStatus reports whether s is one of the three task statuses.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Status      TaskStatus         `bson:"status" json:"status"`
	ProjectID   primitive.ObjectID `bson:"project" json:"project"`
	AssignedTo  primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAssignee reports whether userID is the task's assignee. Only the
// assignee may change the task's status.
func (t *Task) IsAssignee(userID primitive.ObjectID) bool {
	return t.AssignedTo == userID
}

// CanModify reports whether userID may edit or delete the task: project
// admins and the assignee qualify.
func (t *Task) CanModify(project *Project, userID primitive.ObjectID) bool {
	return project.IsAdmin(userID) || t.IsAssignee(userID)
}

// CanView reports whether userID may read the task. Members see it only if
// assigned to them; admins see every task in the project.
func (t *Task) CanView(project *Project, userID primitive.ObjectID) bool {
	if !project.IsMember(userID) {
		return false
	}
	return project.IsAdmin(userID) || t.IsAssignee(userID)
}

// TaskDetail is the task shape returned to clients, with user references
// expanded and the project reduced to id and name.
type TaskDetail struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      TaskStatus         `json:"status"`
	Project     ProjectRef         `json:"project"`
	AssignedTo  UserSummary        `json:"assignedTo"`
	CreatedBy   UserSummary        `json:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type ProjectRef struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}
