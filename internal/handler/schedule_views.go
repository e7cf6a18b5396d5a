package handler

import (
	"net/http"
	"time"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
	"github.com/fieldops-dev/field-dispatch/backend/internal/schedule"
)

// fetchAnnotatedJobs 读取工单和不可用数据并计算冲突标记
// 三个视图共用这一份快照，快照只在本次渲染内有效，不做任何缓存
func (h *Handler) fetchAnnotatedJobs() ([]*schedule.AnnotatedJob, error) {
	jobs, err := h.repository.GetAllJobs("")
	if err != nil {
		return nil, err
	}

	records, err := h.repository.GetAllUnavailability()
	if err != nil {
		return nil, err
	}

	return schedule.AnnotateJobs(jobs, schedule.BuildAvailabilityIndex(records)), nil
}

func (h *Handler) GetScheduleList(w http.ResponseWriter, r *http.Request) {
	annotated, err := h.fetchAnnotatedJobs()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取列表视图成功", annotated)
}

type KanbanColumn struct {
	Status domain.JobStatus         `json:"status"`
	Jobs   []*schedule.AnnotatedJob `json:"jobs"`
}

func (h *Handler) GetScheduleKanban(w http.ResponseWriter, r *http.Request) {
	annotated, err := h.fetchAnnotatedJobs()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	statuses := []domain.JobStatus{
		domain.JobStatusDraft,
		domain.JobStatusScheduled,
		domain.JobStatusInProgress,
		domain.JobStatusCompleted,
		domain.JobStatusCancelled,
	}

	columns := make([]KanbanColumn, 0, len(statuses))
	for _, status := range statuses {
		column := KanbanColumn{
			Status: status,
			Jobs:   make([]*schedule.AnnotatedJob, 0),
		}
		for _, job := range annotated {
			if job.Status == status {
				column.Jobs = append(column.Jobs, job)
			}
		}
		columns = append(columns, column)
	}

	h.successResponse(w, r, "获取看板视图成功", columns)
}

type CalendarDay struct {
	Date string                   `json:"date"`
	Jobs []*schedule.AnnotatedJob `json:"jobs"`
}

func (h *Handler) GetScheduleCalendar(w http.ResponseWriter, r *http.Request) {
	// 默认展示从今天开始的一个月
	from := schedule.TruncateToDate(time.Now())
	to := from.AddDate(0, 1, 0)

	if fromParam := r.URL.Query().Get("from"); fromParam != "" {
		parsed, err := time.ParseInLocation(schedule.DateLayout, fromParam, time.UTC)
		if err != nil {
			h.errorResponse(w, r, "开始日期格式无效")
			return
		}
		from = parsed
	}
	if toParam := r.URL.Query().Get("to"); toParam != "" {
		parsed, err := time.ParseInLocation(schedule.DateLayout, toParam, time.UTC)
		if err != nil {
			h.errorResponse(w, r, "结束日期格式无效")
			return
		}
		to = parsed
	}

	if to.Before(from) {
		h.errorResponse(w, r, "结束日期不能早于开始日期")
		return
	}

	annotated, err := h.fetchAnnotatedJobs()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	days := make([]CalendarDay, 0)
	for _, date := range (schedule.DateRange{Start: from, End: to}).Dates() {
		day := CalendarDay{
			Date: date.Format(schedule.DateLayout),
			Jobs: make([]*schedule.AnnotatedJob, 0),
		}
		for _, job := range annotated {
			jobRange, ok := schedule.EffectiveRange(job.StartTime, job.EndTime)
			if !ok {
				// 没有排期的工单不会出现在日历视图中
				continue
			}
			if !date.Before(jobRange.Start) && !date.After(jobRange.End) {
				day.Jobs = append(day.Jobs, job)
			}
		}
		days = append(days, day)
	}

	h.successResponse(w, r, "获取日历视图成功", days)
}
