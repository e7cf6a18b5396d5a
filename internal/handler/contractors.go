package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

func (h *Handler) GetAllContractors(w http.ResponseWriter, r *http.Request) {
	contractors, err := h.repository.GetAllContractors()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取外包人员列表成功", contractors)
}

func (h *Handler) CreateContractor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name" validate:"required"`
		Company string `json:"company"`
		Phone   string `json:"phone"`
		Email   string `json:"email" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	contractor := &domain.Contractor{
		Name:    req.Name,
		Company: req.Company,
		Phone:   req.Phone,
		Email:   req.Email,
	}

	if err := h.repository.CreateContractor(contractor); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建外包人员成功", contractor)
}

func (h *Handler) GetContractor(w http.ResponseWriter, r *http.Request) {
	contractor := r.Context().Value(ContractorInfoCtx).(*domain.Contractor)
	h.successResponse(w, r, "获取外包人员信息成功", contractor)
}

func (h *Handler) UpdateContractor(w http.ResponseWriter, r *http.Request) {
	contractor := r.Context().Value(ContractorInfoCtx).(*domain.Contractor)

	var req struct {
		Name    *string `json:"name"`
		Company *string `json:"company"`
		Phone   *string `json:"phone"`
		Email   *string `json:"email" validate:"omitempty,email"`
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
		contractor.Name = *req.Name
	}
	if req.Company != nil {
		contractor.Company = *req.Company
	}
	if req.Phone != nil {
		contractor.Phone = *req.Phone
	}
	if req.Email != nil {
		contractor.Email = *req.Email
	}

	if err := h.repository.UpdateContractor(contractor); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "外包人员信息已被其他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新外包人员信息成功", contractor)
}

func (h *Handler) DeleteContractor(w http.ResponseWriter, r *http.Request) {
	contractor := r.Context().Value(ContractorInfoCtx).(*domain.Contractor)

	if err := h.repository.DeleteContractor(contractor.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除外包人员成功", nil)
}
