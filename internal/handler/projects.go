package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

// GetAllProjects 返回 员工ID -> 项目标签串 的归属映射
func (h *Handler) GetAllProjects(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.repository.GetProjectAssignments()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取项目归属成功", assignments)
}

func (h *Handler) ChangeProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employeeID" validate:"required"`
		Project    string `json:"project" validate:"required,excludes= "`
		Action     string `json:"action" validate:"required,oneof=add remove"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := h.repository.GetEmployeeByID(req.EmployeeID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	var err error
	switch domain.ProjectAction(req.Action) {
	case domain.ProjectActionAdd:
		err = h.repository.AddProjectAssignment(req.EmployeeID, req.Project)
	case domain.ProjectActionRemove:
		err = h.repository.RemoveProjectAssignment(req.EmployeeID, req.Project)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "变更项目归属成功", nil)
}
