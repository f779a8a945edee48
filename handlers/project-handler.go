package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AliShafique28/task-management-system-1/errs"
	"github.com/AliShafique28/task-management-system-1/logging"
	"github.com/AliShafique28/task-management-system-1/middleware"
	"github.com/AliShafique28/task-management-system-1/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Service: service}
}

// callerID pulls the authenticated user id the JWT middleware stored in the
// request context.
func callerID(r *http.Request) (primitive.ObjectID, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, errs.Forbidden("Missing authenticated identity")
	}
	return id, nil
}

func pathObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		return primitive.NilObjectID, errs.Validation("Invalid %s", name)
	}
	return id, nil
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type addMemberRequest struct {
	Email string `json:"email"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.Validation("Invalid request payload"))
		return
	}

	project, err := h.Service.CreateProject(r.Context(), req.Name, req.Description, caller)
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := h.Service.DetailOf(r.Context(), project)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Project %s created by user %s", project.ID.Hex(), caller.Hex())
	respondJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "Project created successfully",
		Data:    detail,
	})
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	page, limit := parsePagination(r)
	projects, total, err := h.Service.ListProjects(r.Context(), caller, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	details, err := h.Service.DetailsOf(r.Context(), projects)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Success:    true,
		Count:      len(details),
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
		Data:       details,
	})
}

func (h *ProjectHandler) SearchProjects(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		respondError(w, errs.Validation("Please provide search query (q parameter)"))
		return
	}

	projects, err := h.Service.SearchProjects(r.Context(), caller, q)
	if err != nil {
		respondError(w, err)
		return
	}

	details, err := h.Service.DetailsOf(r.Context(), projects)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Success: true,
		Count:   len(details),
		Data:    details,
	})
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathObjectID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.Service.GetProject(r.Context(), projectID, caller)
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := h.Service.DetailOf(r.Context(), project)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response{Success: true, Data: detail})
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathObjectID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.Validation("Invalid request payload"))
		return
	}

	project, err := h.Service.UpdateProject(r.Context(), projectID, caller, req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := h.Service.DetailOf(r.Context(), project)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Project updated successfully",
		Data:    detail,
	})
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathObjectID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Service.DeleteProject(r.Context(), projectID, caller); err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Project %s deleted by user %s", projectID.Hex(), caller.Hex())
	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Project and all associated tasks deleted successfully",
	})
}

func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathObjectID(r, "projectId")
	if err != nil {
		respondError(w, err)
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.Validation("Invalid request payload"))
		return
	}

	project, err := h.Service.AddMember(r.Context(), projectID, caller, req.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := h.Service.DetailOf(r.Context(), project)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Member added successfully",
		Data:    detail,
	})
}

func (h *ProjectHandler) PromoteMember(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathObjectID(r, "projectId")
	if err != nil {
		respondError(w, err)
		return
	}

	targetID, err := pathObjectID(r, "userId")
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.Service.PromoteMember(r.Context(), projectID, caller, targetID)
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := h.Service.DetailOf(r.Context(), project)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Member promoted to admin successfully",
		Data:    detail,
	})
}

func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathObjectID(r, "projectId")
	if err != nil {
		respondError(w, err)
		return
	}

	targetID, err := pathObjectID(r, "userId")
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.Service.RemoveMember(r.Context(), projectID, caller, targetID)
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := h.Service.DetailOf(r.Context(), project)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Member removed successfully",
		Data:    detail,
	})
}
