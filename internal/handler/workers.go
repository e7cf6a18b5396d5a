package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

func (h *Handler) GetAllWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.repository.GetAllWorkers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", workers)
}

func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name" validate:"required"`
		Phone string `json:"phone"`
		Email string `json:"email" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	worker := &domain.Worker{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		IsActive: true,
	}

	if err := h.repository.CreateWorker(worker); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建员工成功", worker)
}

func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerInfoCtx).(*domain.Worker)
	h.successResponse(w, r, "获取员工信息成功", worker)
}

func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerInfoCtx).(*domain.Worker)

	var req struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		Email    *string `json:"email" validate:"omitempty,email"`
		IsActive *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		worker.Name = *req.Name
	}
	if req.Phone != nil {
		worker.Phone = *req.Phone
	}
	if req.Email != nil {
		worker.Email = *req.Email
	}
	if req.IsActive != nil {
		worker.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateWorker(worker); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "员工信息已被其他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新员工信息成功", worker)
}

func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerInfoCtx).(*domain.Worker)

	if err := h.repository.DeleteWorker(worker.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}
