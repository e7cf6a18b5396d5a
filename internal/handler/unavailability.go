package handler

import (
	"net/http"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

func (h *Handler) GetAllUnavailability(w http.ResponseWriter, r *http.Request) {
	records, err := h.repository.GetAllUnavailability()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取不可用日期列表成功", records)
}

func (h *Handler) getUnavailability(w http.ResponseWriter, r *http.Request, assigneeID int64) {
	records, err := h.repository.GetUnavailabilityByAssigneeID(assigneeID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取不可用日期成功", records)
}

// createUnavailability 批量登记不可用日期
// (人员, 日期) 是集合语义，重复登记会被直接忽略
func (h *Handler) createUnavailability(w http.ResponseWriter, r *http.Request, assigneeID int64) {
	var req struct {
		Dates []string `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	for _, date := range req.Dates {
		record := &domain.Unavailability{
			AssigneeID: assigneeID,
			Date:       date,
		}
		if err := h.repository.CreateUnavailability(record); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "登记不可用日期成功", nil)
}

func (h *Handler) deleteUnavailability(w http.ResponseWriter, r *http.Request, assigneeID int64) {
	var req struct {
		Dates []string `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	for _, date := range req.Dates {
		if err := h.repository.DeleteUnavailability(assigneeID, date); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "删除不可用日期成功", nil)
}

func (h *Handler) GetWorkerUnavailability(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerInfoCtx).(*domain.Worker)
	h.getUnavailability(w, r, worker.ID)
}

func (h *Handler) CreateWorkerUnavailability(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerInfoCtx).(*domain.Worker)
	h.createUnavailability(w, r, worker.ID)
}

func (h *Handler) DeleteWorkerUnavailability(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerInfoCtx).(*domain.Worker)
	h.deleteUnavailability(w, r, worker.ID)
}

func (h *Handler) GetContractorUnavailability(w http.ResponseWriter, r *http.Request) {
	contractor := r.Context().Value(ContractorInfoCtx).(*domain.Contractor)
	h.getUnavailability(w, r, contractor.ID)
}

func (h *Handler) CreateContractorUnavailability(w http.ResponseWriter, r *http.Request) {
	contractor := r.Context().Value(ContractorInfoCtx).(*domain.Contractor)
	h.createUnavailability(w, r, contractor.ID)
}

func (h *Handler) DeleteContractorUnavailability(w http.ResponseWriter, r *http.Request) {
	contractor := r.Context().Value(ContractorInfoCtx).(*domain.Contractor)
	h.deleteUnavailability(w, r, contractor.ID)
}
