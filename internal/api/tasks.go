package api

import (
	"net/http"
	"strings"
	"time"

	"taskd/internal/task"
)

// Task endpoints. Every handler derives the owner from validated claims; a
// task id in the URL never grants access by itself. A task that exists but
// belongs to someone else yields the same 404 as a missing one.

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	list, err := h.tasks.ListByOwner(r.Context(), claims.UserID)
	if err != nil {
		h.log.Error("task.list", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponses(list))
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req createTaskRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeValidationErrors(w, []fieldError{{Field: "title", Message: "title is required"}})
		return
	}

	created, err := h.tasks.Create(r.Context(), task.CreateInput{
		OwnerID:     claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Now:         time.Now().UTC(),
	})
	if err != nil {
		if task.IsInvalidInput(err) {
			writeValidationErrors(w, []fieldError{{Field: "title", Message: "title is required"}})
			return
		}
		h.log.Error("task.create", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	w.Header().Set("Location", "/tasks/"+created.ID)
	writeJSON(w, http.StatusCreated, toTaskResponse(created))
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	got, err := h.tasks.GetByID(r.Context(), claims.UserID, r.PathValue("id"))
	if err != nil {
		if task.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		h.log.Error("task.get", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(got))
}

func (h *Handler) handleReplaceTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req replaceTaskRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeValidationErrors(w, []fieldError{{Field: "title", Message: "title is required"}})
		return
	}

	_, err := h.tasks.Replace(r.Context(), claims.UserID, r.PathValue("id"), task.ReplaceInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.IsCompleted,
		Now:         time.Now().UTC(),
	})
	if err != nil {
		switch {
		case task.IsNotFound(err):
			writeError(w, http.StatusNotFound, "not_found", "task not found")
		case task.IsInvalidInput(err):
			writeValidationErrors(w, []fieldError{{Field: "title", Message: "title is required"}})
		default:
			h.log.Error("task.replace", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	if err := h.tasks.Delete(r.Context(), claims.UserID, r.PathValue("id")); err != nil {
		if task.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		h.log.Error("task.delete", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
