package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AliShafique28/task-management-system-1/errs"
	"github.com/AliShafique28/task-management-system-1/logging"
	"github.com/AliShafique28/task-management-system-1/models"
	"github.com/AliShafique28/task-management-system-1/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	Service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{Service: service}
}

type createTaskRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Project       string `json:"project"`
	AssignToEmail string `json:"assignToEmail"`
}

type updateTaskRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	AssignToEmail *string `json:"assignToEmail"`
}

type updateStatusRequest struct {
	Status models.TaskStatus `json:"status"`
}

// queryProjectID reads the project id from the query string; every task
// listing is scoped to exactly one project.
func queryProjectID(r *http.Request) (primitive.ObjectID, error) {
	raw := r.URL.Query().Get("project")
	if raw == "" {
		return primitive.NilObjectID, errs.Validation("Please provide project ID")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, errs.Validation("Invalid project ID")
	}
	return id, nil
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.Validation("Invalid request payload"))
		return
	}

	if req.Project == "" {
		respondError(w, errs.Validation("Please provide title, project, and user email to assign"))
		return
	}
	projectID, err := primitive.ObjectIDFromHex(req.Project)
	if err != nil {
		respondError(w, errs.Validation("Invalid project ID"))
		return
	}

	task, err := h.Service.CreateTask(r.Context(), caller, projectID, req.Title, req.Description, req.AssignToEmail)
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := h.Service.DetailOf(r.Context(), task)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Task %s created in project %s by user %s", task.ID.Hex(), projectID.Hex(), caller.Hex())
	respondJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "Task created successfully",
		Data:    detail,
	})
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := queryProjectID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	page, limit := parsePagination(r)
	tasks, total, err := h.Service.ListTasks(r.Context(), caller, projectID, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	details, err := h.Service.DetailsOf(r.Context(), tasks)
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

func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
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

	projectID, err := queryProjectID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	tasks, err := h.Service.SearchTasks(r.Context(), caller, projectID, q)
	if err != nil {
		respondError(w, err)
		return
	}

	details, err := h.Service.DetailsOf(r.Context(), tasks)
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

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := pathObjectID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	task, err := h.Service.GetTask(r.Context(), caller, taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := h.Service.DetailOf(r.Context(), task)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response{Success: true, Data: detail})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := pathObjectID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.Validation("Invalid request payload"))
		return
	}

	task, err := h.Service.UpdateTask(r.Context(), caller, taskID, req.Title, req.Description, req.AssignToEmail)
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := h.Service.DetailOf(r.Context(), task)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Task updated successfully",
		Data:    detail,
	})
}

func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := pathObjectID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.Validation("Invalid request payload"))
		return
	}

	task, err := h.Service.UpdateTaskStatus(r.Context(), caller, taskID, req.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := h.Service.DetailOf(r.Context(), task)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Task status updated successfully",
		Data:    detail,
	})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := pathObjectID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Service.DeleteTask(r.Context(), caller, taskID); err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Task %s deleted by user %s", taskID.Hex(), caller.Hex())
	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Task deleted successfully",
	})
}
