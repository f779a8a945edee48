package services

import (
	"context"
	"strings"
	"time"

	"github.com/AliShafique28/task-management-system-1/errs"
	"github.com/AliShafique28/task-management-system-1/logging"
	"github.com/AliShafique28/task-management-system-1/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskService struct {
	TasksCollection    *mongo.Collection
	ProjectsCollection *mongo.Collection
	Users              UserStore
}

func NewTaskService(tasksCollection, projectsCollection *mongo.Collection, users UserStore) *TaskService {
	return &TaskService{
		TasksCollection:    tasksCollection,
		ProjectsCollection: projectsCollection,
		Users:              users,
	}
}

// CreateTask creates a task inside a project. Only project admins may
// create tasks, and the assignee must be a member of that project at this
// moment. The check is not re-run if the assignee is later removed.
func (s *TaskService) CreateTask(ctx context.Context, callerID primitive.ObjectID, projectID primitive.ObjectID, title, description, assignToEmail string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(assignToEmail) == "" {
		return nil, errs.Validation("Please provide title, project, and user email to assign")
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := project.AuthorizeAdmin(callerID); err != nil {
		return nil, err
	}

	assignee, err := s.Users.FindByEmail(ctx, assignToEmail)
	if err != nil {
		return nil, err
	}
	if err := project.AuthorizeAssignee(assignee.ID); err != nil {
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      models.StatusTodo,
		ProjectID:   projectID,
		AssignedTo:  assignee.ID,
		CreatedBy:   callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.TasksCollection.InsertOne(ctx, task); err != nil {
		logging.Logger.Errorf("Failed to insert task: %v", err)
		return nil, errs.Internal(err, "Server error during task creation")
	}

	return task, nil
}

// ListTasks returns the caller's page of a project's tasks, newest first.
// Admins see every task; plain members only see tasks assigned to them.
func (s *TaskService) ListTasks(ctx context.Context, callerID, projectID primitive.ObjectID, page, limit int64) ([]models.Task, int64, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, 0, err
	}
	if !project.IsMember(callerID) {
		return nil, 0, errs.Forbidden("Access denied")
	}

	filter := bson.M{"project": projectID}
	if !project.IsAdmin(callerID) {
		filter["assignedTo"] = callerID
	}

	total, err := s.TasksCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errs.Internal(err, "Server error")
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.TasksCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errs.Internal(err, "Server error")
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, 0, errs.Internal(err, "Server error")
	}

	return tasks, total, nil
}

// SearchTasks matches tasks by title within a project, scoped by the same
// visibility rule as ListTasks.
func (s *TaskService) SearchTasks(ctx context.Context, callerID, projectID primitive.ObjectID, query string) ([]models.Task, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsMember(callerID) {
		return nil, errs.Forbidden("Access denied")
	}

	filter := bson.M{
		"project": projectID,
		"title":   primitive.Regex{Pattern: query, Options: "i"},
	}
	if !project.IsAdmin(callerID) {
		filter["assignedTo"] = callerID
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.TasksCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.Internal(err, "Server error")
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, errs.Internal(err, "Server error")
	}

	return tasks, nil
}

// GetTask loads a single task. The caller must be a member of the task's
// project, and plain members may only view their own assignments.
func (s *TaskService) GetTask(ctx context.Context, callerID, taskID primitive.ObjectID) (*models.Task, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.IsMember(callerID) {
		return nil, errs.Forbidden("Access denied")
	}
	if !task.CanView(project, callerID) {
		return nil, errs.Forbidden("You can only view your own tasks")
	}

	return task, nil
}

// UpdateTaskStatus sets the task's status. Only the assignee may do this;
// admins cannot force a status change on someone else's task.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, callerID, taskID primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	if status == "" {
		return nil, errs.Validation("Please provide status")
	}
	if !models.ValidStatus(status) {
		return nil, errs.Validation("Invalid status. Must be: todo, in-progress, or done")
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsAssignee(callerID) {
		return nil, errs.Forbidden("You can only update status of tasks assigned to you")
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	if _, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update); err != nil {
		logging.Logger.Errorf("Failed to update status of task %s: %v", taskID.Hex(), err)
		return nil, errs.Internal(err, "Server error")
	}

	return s.loadTask(ctx, taskID)
}

// UpdateTask edits title/description and optionally reassigns. Admins and
// the assignee may edit; reassignment is admin-only and the new assignee
// must currently be a project member.
func (s *TaskService) UpdateTask(ctx context.Context, callerID, taskID primitive.ObjectID, title, description, assignToEmail *string) (*models.Task, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !task.CanModify(project, callerID) {
		return nil, errs.Forbidden("You can only update tasks assigned to you or if you are a project admin")
	}

	set := bson.M{"updatedAt": time.Now()}
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return nil, errs.Validation("Task title cannot be empty")
		}
		set["title"] = trimmed
	}
	if description != nil {
		set["description"] = strings.TrimSpace(*description)
	}

	if assignToEmail != nil {
		if !project.IsAdmin(callerID) {
			return nil, errs.Forbidden("Only project admins can reassign tasks")
		}
		newAssignee, err := s.Users.FindByEmail(ctx, *assignToEmail)
		if err != nil {
			return nil, err
		}
		if err := project.AuthorizeAssignee(newAssignee.ID); err != nil {
			return nil, err
		}
		set["assignedTo"] = newAssignee.ID
	}

	if _, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": set}); err != nil {
		logging.Logger.Errorf("Failed to update task %s: %v", taskID.Hex(), err)
		return nil, errs.Internal(err, "Server error")
	}

	return s.loadTask(ctx, taskID)
}

// DeleteTask removes a task. Admins and the assignee may delete.
func (s *TaskService) DeleteTask(ctx context.Context, callerID, taskID primitive.ObjectID) error {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return err
	}

	project, err := s.loadProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	if !task.CanModify(project, callerID) {
		return errs.Forbidden("You can only delete tasks that are assigned to you or if you are a project admin")
	}

	if _, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": taskID}); err != nil {
		logging.Logger.Errorf("Failed to delete task %s: %v", taskID.Hex(), err)
		return errs.Internal(err, "Server error")
	}

	return nil
}

// DetailOf expands a task's references for the client.
func (s *TaskService) DetailOf(ctx context.Context, task *models.Task) (*models.TaskDetail, error) {
	project, err := s.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.Users.SummariesByIDs(ctx, []primitive.ObjectID{task.AssignedTo, task.CreatedBy})
	if err != nil {
		return nil, err
	}

	return &models.TaskDetail{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Project:     models.ProjectRef{ID: project.ID, Name: project.Name},
		AssignedTo:  summaries[task.AssignedTo],
		CreatedBy:   summaries[task.CreatedBy],
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}, nil
}

// DetailsOf expands a slice of tasks.
func (s *TaskService) DetailsOf(ctx context.Context, tasks []models.Task) ([]models.TaskDetail, error) {
	details := make([]models.TaskDetail, 0, len(tasks))
	for i := range tasks {
		detail, err := s.DetailOf(ctx, &tasks[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

func (s *TaskService) loadTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("Task not found")
	}
	if err != nil {
		return nil, errs.Internal(err, "Server error")
	}
	return &task, nil
}

func (s *TaskService) loadProject(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("Project not found")
	}
	if err != nil {
		return nil, errs.Internal(err, "Server error")
	}
	return &project, nil
}
