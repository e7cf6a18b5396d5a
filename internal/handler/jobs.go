package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
	"github.com/fieldops-dev/field-dispatch/backend/internal/schedule"
	"github.com/fieldops-dev/field-dispatch/backend/internal/utils"
	amqp "github.com/rabbitmq/amqp091-go"
)

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string     `json:"title" validate:"required"`
		Description string     `json:"description"`
		Status      string     `json:"status" validate:"omitempty,oneof=draft scheduled in_progress completed cancelled"`
		Priority    string     `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
		StartTime   *time.Time `json:"startTime"`
		EndTime     *time.Time `json:"endTime"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	job := &domain.Job{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.JobStatusDraft,
		Priority:    domain.JobPriorityNormal,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	if req.Status != "" {
		job.Status = domain.JobStatus(req.Status)
	}
	if req.Priority != "" {
		job.Priority = domain.JobPriority(req.Priority)
	}

	// 检查工单的排期是否合法
	if err := utils.ValidateJobTimeRange(job.StartTime, job.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateJob(job); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建工单成功", job)
}

func (h *Handler) GetAllJobs(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" {
		switch domain.JobStatus(status) {
		case domain.JobStatusDraft, domain.JobStatusScheduled, domain.JobStatusInProgress, domain.JobStatusCompleted, domain.JobStatusCancelled:
		default:
			h.errorResponse(w, r, "无效的工单状态")
			return
		}
	}

	jobs, err := h.repository.GetAllJobs(status)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工单列表成功", jobs)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(JobCtx).(*domain.Job)
	h.successResponse(w, r, "获取工单成功", job)
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(JobCtx).(*domain.Job)

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Status      *string    `json:"status" validate:"omitempty,oneof=draft scheduled in_progress completed cancelled"`
		Priority    *string    `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
		StartTime   *time.Time `json:"startTime"`
		EndTime     *time.Time `json:"endTime"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 将输入的参数解析到 job 中
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Status != nil {
		job.Status = domain.JobStatus(*req.Status)
	}
	if req.Priority != nil {
		job.Priority = domain.JobPriority(*req.Priority)
	}
	if req.StartTime != nil {
		job.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		job.EndTime = req.EndTime
	}

	// 检查工单的排期是否合法
	if err := utils.ValidateJobTimeRange(job.StartTime, job.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateJob(job); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "工单已被其他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新工单成功", job)
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(JobCtx).(*domain.Job)

	if err := h.repository.DeleteJob(job.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除工单成功", nil)
}

// SetJobAssignments 整体替换工单的指派列表，可以同时附带新的排期
// 冲突检查和写入都在 AssignmentService 中完成
func (h *Handler) SetJobAssignments(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(JobCtx).(*domain.Job)

	var req struct {
		AssigneeIDs []int64    `json:"assigneeIDs"`
		StartTime   *time.Time `json:"startTime"`
		EndTime     *time.Time `json:"endTime"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	var timeRange *schedule.TimeRange
	if req.StartTime != nil || req.EndTime != nil {
		timeRange = &schedule.TimeRange{
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		}
	}

	updated, err := h.assignments.SetAssignments(job.ID, req.AssigneeIDs, timeRange)
	if err != nil {
		var conflictErr *schedule.ConflictError
		var unresolvedErr *schedule.UnresolvedAssigneeError
		switch {
		case errors.As(err, &conflictErr):
			// 冲突详情放在 data 中，方便前端提示改派其他人员
			h.conflictResponse(w, r, conflictErr)
		case errors.As(err, &unresolvedErr):
			h.errorResponse(w, r, unresolvedErr.Error())
		case errors.Is(err, schedule.ErrJobNotFound):
			h.errorResponse(w, r, "工单不存在")
		case errors.Is(err, schedule.ErrInvalidTimeRange):
			h.badRequest(w, r, err)
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "工单已被其他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 给新指派的人员发送通知邮件
	// 邮件失败不影响已经提交的指派，只记录日志
	h.publishAssignmentNotices(updated)

	h.successResponse(w, r, "更新指派成功", updated)
}

func (h *Handler) publishAssignmentNotices(job *domain.Job) {
	if len(job.Assignments) == 0 {
		return
	}

	workers, err := h.repository.GetAllWorkers()
	if err != nil {
		slog.Error("无法获取员工列表，跳过指派通知", "error", err)
		return
	}
	contractors, err := h.repository.GetAllContractors()
	if err != nil {
		slog.Error("无法获取外包人员列表，跳过指派通知", "error", err)
		return
	}

	workersMap := make(map[int64]*domain.Worker, len(workers))
	for _, worker := range workers {
		workersMap[worker.ID] = worker
	}
	contractorsMap := make(map[int64]*domain.Contractor, len(contractors))
	for _, contractor := range contractors {
		contractorsMap[contractor.ID] = contractor
	}

	startDate := ""
	endDate := ""
	if jobRange, ok := schedule.EffectiveRange(job.StartTime, job.EndTime); ok {
		startDate = jobRange.Start.Format(schedule.DateLayout)
		endDate = jobRange.End.Format(schedule.DateLayout)
	}

	for _, assignment := range job.Assignments {
		var name, email string
		switch {
		case assignment.WorkerID != nil:
			worker, exists := workersMap[*assignment.WorkerID]
			if !exists {
				continue
			}
			name, email = worker.Name, worker.Email
		case assignment.ContractorID != nil:
			contractor, exists := contractorsMap[*assignment.ContractorID]
			if !exists {
				continue
			}
			name, email = contractor.Name, contractor.Email
		}
		if email == "" {
			continue
		}

		mailMessage := domain.MailMessage{
			Type: "assignment_notice",
			To:   email,
			Data: domain.AssignmentNoticeMailData{
				Name:      name,
				JobTitle:  job.Title,
				StartDate: startDate,
				EndDate:   endDate,
			},
		}

		mailData, err := json.Marshal(mailMessage)
		if err != nil {
			slog.Error("指派通知序列化失败", "error", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
		err = h.mailChannel.PublishWithContext(
			ctx,
			"",
			"email_queue",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        mailData,
			},
		)
		cancel()
		if err != nil {
			slog.Error("指派通知发送失败", "error", err, "to", email)
		}
	}
}
