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

type ProjectService struct {
	ProjectsCollection *mongo.Collection
	TasksCollection    *mongo.Collection
	Users              UserStore
}

func NewProjectService(projectsCollection, tasksCollection *mongo.Collection, users UserStore) *ProjectService {
	return &ProjectService{
		ProjectsCollection: projectsCollection,
		TasksCollection:    tasksCollection,
		Users:              users,
	}
}

// CreateProject creates a project with the caller as its first member, role
// admin. Any authenticated user may create projects.
func (s *ProjectService) CreateProject(ctx context.Context, name, description string, creator primitive.ObjectID) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation("Please provide a project name")
	}

	project := models.NewProject(name, strings.TrimSpace(description), creator)

	if _, err := s.ProjectsCollection.InsertOne(ctx, project); err != nil {
		logging.Logger.Errorf("Failed to insert project: %v", err)
		return nil, errs.Internal(err, "Server error during project creation")
	}

	return project, nil
}

// ListProjects returns the page of projects the user is a member of, newest
// first, together with the total match count for pagination.
func (s *ProjectService) ListProjects(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Project, int64, error) {
	filter := bson.M{"members.user": userID}

	total, err := s.ProjectsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errs.Internal(err, "Server error")
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.ProjectsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errs.Internal(err, "Server error")
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, 0, errs.Internal(err, "Server error")
	}

	return projects, total, nil
}

// SearchProjects matches the user's projects by name, case-insensitive.
func (s *ProjectService) SearchProjects(ctx context.Context, userID primitive.ObjectID, query string) ([]models.Project, error) {
	filter := bson.M{
		"members.user": userID,
		"name":         primitive.Regex{Pattern: query, Options: "i"},
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.ProjectsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.Internal(err, "Server error")
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, errs.Internal(err, "Server error")
	}

	return projects, nil
}

// GetProject loads a project for a member. A missing project is not-found; a
// project the caller is not a member of is forbidden. The two are never
// collapsed.
func (s *ProjectService) GetProject(ctx context.Context, projectID, userID primitive.ObjectID) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsMember(userID) {
		return nil, errs.Forbidden("Access denied. You are not a member of this project.")
	}
	return project, nil
}

// UpdateProject edits name and/or description. Admins only. Nil fields are
// left untouched.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID, userID primitive.ObjectID, name, description *string) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsAdmin(userID) {
		return nil, errs.Forbidden("Only project admins can update this project")
	}

	set := bson.M{"updatedAt": time.Now()}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, errs.Validation("Project name cannot be empty")
		}
		set["name"] = trimmed
	}
	if description != nil {
		set["description"] = strings.TrimSpace(*description)
	}

	if _, err := s.ProjectsCollection.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$set": set}); err != nil {
		logging.Logger.Errorf("Failed to update project %s: %v", projectID.Hex(), err)
		return nil, errs.Internal(err, "Server error")
	}

	return s.loadProject(ctx, projectID)
}

// DeleteProject removes a project and every task referencing it. Only the
// creator may delete, regardless of who else holds the admin role. Tasks are
// removed first; a failure there aborts the delete so the project is never
// left pointing at orphaned state silently.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, userID primitive.ObjectID) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := project.AuthorizeDelete(userID); err != nil {
		return err
	}

	if _, err := s.TasksCollection.DeleteMany(ctx, bson.M{"project": projectID}); err != nil {
		logging.Logger.Errorf("Failed to delete tasks for project %s: %v", projectID.Hex(), err)
		return errs.Internal(err, "Server error during project deletion")
	}

	result, err := s.ProjectsCollection.DeleteOne(ctx, bson.M{"_id": projectID})
	if err != nil {
		logging.Logger.Errorf("Tasks removed but project %s could not be deleted: %v", projectID.Hex(), err)
		return errs.Internal(err, "Server error during project deletion")
	}
	if result.DeletedCount == 0 {
		return errs.NotFound("Project not found")
	}

	return nil
}

// AddMember adds the user identified by email as a plain member. Admins
// only; duplicates are rejected.
func (s *ProjectService) AddMember(ctx context.Context, projectID, callerID primitive.ObjectID, email string) (*models.Project, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errs.Validation("Please provide user email")
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := project.AuthorizeAdmin(callerID); err != nil {
		return nil, err
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := project.AuthorizeNewMember(user.ID); err != nil {
		return nil, err
	}

	member := models.Member{User: user.ID, Role: models.RoleMember, AddedAt: time.Now()}
	update := bson.M{
		"$push": bson.M{"members": member},
		"$set":  bson.M{"updatedAt": time.Now()},
		"$inc":  bson.M{"version": 1},
	}

	if err := s.casUpdate(ctx, project, update); err != nil {
		return nil, err
	}

	return s.loadProject(ctx, projectID)
}

// PromoteMember raises an existing member to admin. Admins only; promoting
// someone who is already admin is a conflict, not a silent no-op.
func (s *ProjectService) PromoteMember(ctx context.Context, projectID, callerID, targetID primitive.ObjectID) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := project.AuthorizeAdmin(callerID); err != nil {
		return nil, err
	}
	if err := project.AuthorizePromotion(targetID); err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{"members.$[m].role": models.RoleAdmin, "updatedAt": time.Now()},
		"$inc": bson.M{"version": 1},
	}
	arrayFilters := options.ArrayFilters{Filters: []interface{}{bson.M{"m.user": targetID}}}

	if err := s.casUpdateWithOptions(ctx, project, update, options.Update().SetArrayFilters(arrayFilters)); err != nil {
		return nil, err
	}

	return s.loadProject(ctx, projectID)
}

// RemoveMember drops a member from the project. Admins only; the creator can
// never be removed. Tasks assigned to the removed member keep their
// assignment, but the member loses all read access to the project.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, callerID, targetID primitive.ObjectID) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := project.AuthorizeAdmin(callerID); err != nil {
		return nil, err
	}
	if err := project.AuthorizeRemoval(targetID); err != nil {
		return nil, err
	}

	update := bson.M{
		"$pull": bson.M{"members": bson.M{"user": targetID}},
		"$set":  bson.M{"updatedAt": time.Now()},
		"$inc":  bson.M{"version": 1},
	}

	if err := s.casUpdate(ctx, project, update); err != nil {
		return nil, err
	}

	return s.loadProject(ctx, projectID)
}

// DetailOf expands a project's user references to summaries for the client.
func (s *ProjectService) DetailOf(ctx context.Context, project *models.Project) (*models.ProjectDetail, error) {
	ids := make([]primitive.ObjectID, 0, len(project.Members)+1)
	ids = append(ids, project.CreatedBy)
	for _, m := range project.Members {
		ids = append(ids, m.User)
	}

	summaries, err := s.Users.SummariesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	detail := &models.ProjectDetail{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedBy:   summaries[project.CreatedBy],
		Members:     make([]models.MemberDetail, 0, len(project.Members)),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	for _, m := range project.Members {
		detail.Members = append(detail.Members, models.MemberDetail{
			User:    summaries[m.User],
			Role:    m.Role,
			AddedAt: m.AddedAt,
		})
	}

	return detail, nil
}

// DetailsOf expands a slice of projects.
func (s *ProjectService) DetailsOf(ctx context.Context, projects []models.Project) ([]models.ProjectDetail, error) {
	details := make([]models.ProjectDetail, 0, len(projects))
	for i := range projects {
		detail, err := s.DetailOf(ctx, &projects[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

func (s *ProjectService) loadProject(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
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

// casUpdate applies a membership mutation matched on {_id, version}. A
// concurrent writer bumps the version first, so our update matches nothing
// and the caller gets a conflict to retry instead of a lost update.
func (s *ProjectService) casUpdate(ctx context.Context, project *models.Project, update bson.M) error {
	return s.casUpdateWithOptions(ctx, project, update, options.Update())
}

func (s *ProjectService) casUpdateWithOptions(ctx context.Context, project *models.Project, update bson.M, opts *options.UpdateOptions) error {
	filter := bson.M{"_id": project.ID, "version": project.Version}

	result, err := s.ProjectsCollection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		logging.Logger.Errorf("Failed to update members of project %s: %v", project.ID.Hex(), err)
		return errs.Internal(err, "Server error")
	}

	var reloadErr error
	if result.MatchedCount == 0 {
		_, reloadErr = s.loadProject(ctx, project.ID)
	}
	return casOutcome(result.MatchedCount, reloadErr)
}

// casOutcome interprets a version-guarded update. Nothing matched means
// either the project vanished (the reload already said not-found) or a
// concurrent writer bumped the version first, which is a retryable
// conflict.
func casOutcome(matched int64, reloadErr error) error {
	if matched > 0 {
		return nil
	}
	if reloadErr != nil {
		return reloadErr
	}
	return errs.Conflict("Project was modified concurrently, please retry")
}
