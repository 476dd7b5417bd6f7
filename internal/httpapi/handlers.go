package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
	"github.com/YuriiYurchuk/Focus-Flow/internal/usecase"
)

type taskResponse struct {
	Task *domain.Task `json:"task"`
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	in := usecase.ListTasksInput{OwnerID: ownerFromContext(r.Context())}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.Status(s)
		if !status.IsValid() {
			writeError(w, domain.ErrInvalidStatus)
			return
		}
		in.Status = &status
	}
	if p := r.URL.Query().Get("priority"); p != "" {
		priority := domain.Priority(p)
		if !priority.IsValid() {
			writeError(w, domain.ErrInvalidPriority)
			return
		}
		in.Priority = &priority
	}

	out, err := h.container.ListTasksUseCase().Execute(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": out.Tasks})
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Priority    string     `json:"priority"`
		Deadline    *time.Time `json:"deadline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	out, err := h.container.CreateTaskUseCase().Execute(r.Context(), usecase.CreateTaskInput{
		OwnerID:     ownerFromContext(r.Context()),
		Title:       body.Title,
		Description: body.Description,
		Priority:    domain.Priority(body.Priority),
		Deadline:    body.Deadline,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, taskResponse{Task: out.Task})
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	out, err := h.container.GetTaskUseCase().Execute(r.Context(), usecase.GetTaskInput{
		OwnerID: ownerFromContext(r.Context()),
		TaskID:  r.PathValue("id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: out.Task})
}

func (h *Handler) editTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title         *string    `json:"title"`
		Description   *string    `json:"description"`
		Priority      *string    `json:"priority"`
		Deadline      *time.Time `json:"deadline"`
		ClearDeadline bool       `json:"clearDeadline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	in := usecase.EditTaskInput{
		OwnerID:     ownerFromContext(r.Context()),
		TaskID:      r.PathValue("id"),
		Title:       body.Title,
		Description: body.Description,
		Deadline:    body.Deadline,
		ClearDue:    body.ClearDeadline,
	}
	if body.Priority != nil {
		priority := domain.Priority(*body.Priority)
		in.Priority = &priority
	}

	out, err := h.container.EditTaskUseCase().Execute(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: out.Task})
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	_, err := h.container.DeleteTaskUseCase().Execute(r.Context(), usecase.DeleteTaskInput{
		OwnerID: ownerFromContext(r.Context()),
		TaskID:  r.PathValue("id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	out, err := h.container.StartSessionUseCase().Execute(r.Context(), usecase.StartSessionInput{
		OwnerID: ownerFromContext(r.Context()),
		TaskID:  r.PathValue("id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: out.Task})
}

func (h *Handler) pauseSession(w http.ResponseWriter, r *http.Request) {
	out, err := h.container.PauseSessionUseCase().Execute(r.Context(), usecase.PauseSessionInput{
		OwnerID: ownerFromContext(r.Context()),
		TaskID:  r.PathValue("id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: out.Task})
}

func (h *Handler) completeTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := ownerFromContext(ctx)

	out, err := h.container.CompleteTaskUseCase().Execute(ctx, usecase.CompleteTaskInput{
		OwnerID: owner,
		TaskID:  r.PathValue("id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.container.RecordCompletionUseCase().Execute(ctx, usecase.RecordCompletionInput{
		OwnerID: owner,
		Task:    out.Task,
	}); err != nil {
		writeError(w, err)
		return
	}
	granted, err := h.container.GrantAchievementsUseCase().Execute(ctx, usecase.GrantAchievementsInput{
		OwnerID: owner,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"task":    out.Task,
		"granted": granted.Granted,
	})
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	out, err := h.container.ReconcileActiveUseCase().Execute(r.Context(), usecase.ReconcileActiveInput{
		OwnerID: ownerFromContext(r.Context()),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"keptId":    out.KeptID,
		"pausedIds": out.PausedIDs,
	})
}

func (h *Handler) listActivity(w http.ResponseWriter, r *http.Request) {
	in := usecase.ListActivityInput{OwnerID: ownerFromContext(r.Context())}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		in.Limit = limit
	}
	if v := r.URL.Query().Get("before"); v != "" {
		before, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid before cursor", http.StatusBadRequest)
			return
		}
		in.Before = before
	}

	out, err := h.container.ListActivityUseCase().Execute(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]any{"entries": out.Entries}
	if !out.NextBefore.IsZero() {
		resp["nextBefore"] = out.NextBefore.Format(time.RFC3339Nano)
	}
	writeJSON(w, http.StatusOK, resp)
}

type achievementResponse struct {
	GrantedAt   *time.Time `json:"grantedAt,omitempty"`
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Earned      bool       `json:"earned"`
}

func (h *Handler) listAchievements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := ownerFromContext(ctx)

	// Grant first so the listing reflects the current stats.
	if _, err := h.container.GrantAchievementsUseCase().Execute(ctx, usecase.GrantAchievementsInput{
		OwnerID: owner,
	}); err != nil {
		writeError(w, err)
		return
	}

	grants, err := h.container.Users.Grants(ctx, owner)
	if err != nil {
		writeError(w, err)
		return
	}
	grantedAt := make(map[string]time.Time, len(grants))
	for _, g := range grants {
		grantedAt[g.ID] = g.GrantedAt
	}

	catalog, err := h.container.Catalog.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	var resp []achievementResponse
	for _, a := range catalog {
		at, earned := grantedAt[a.ID]
		if a.Hidden && !earned {
			continue
		}
		entry := achievementResponse{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Icon:        a.Icon,
			Earned:      earned,
		}
		if earned {
			entry.GrantedAt = &at
		}
		resp = append(resp, entry)
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": resp})
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.container.Users.GetStats(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}
