package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/fieldops-dev/field-dispatch/backend/internal/config"
	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
	"github.com/fieldops-dev/field-dispatch/backend/internal/repository"
	"github.com/fieldops-dev/field-dispatch/backend/internal/schedule"
	"github.com/fieldops-dev/field-dispatch/backend/internal/utils"
)

// SeedDemoData 插入一套可以直接演示的数据：
// 用户、员工、外包人员、工单、不可用日期，以及部分已指派的工单。
// 其中会故意构造一个“先指派后登记不可用”的工单，用于演示视图中的冲突标记。
func SeedDemoData(cfg *config.Config, r *repository.Repository) {
	// 插入用户
	for i := 0; i < 5; i++ {
		user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
		if err != nil {
			slog.Error("无法生成随机用户", "error", err)
			continue
		}
		if err := r.CreateUser(user); err != nil {
			slog.Error("无法插入用户", "error", err)
		}
	}

	// 插入员工和外包人员
	workers := make([]*domain.Worker, 0, 8)
	for i := 0; i < 8; i++ {
		worker := utils.GenerateRandomWorker(cfg.Email.UserDomain)
		if err := r.CreateWorker(worker); err != nil {
			slog.Error("无法插入员工", "error", err)
			continue
		}
		workers = append(workers, worker)
	}

	contractors := make([]*domain.Contractor, 0, 4)
	for i := 0; i < 4; i++ {
		contractor := utils.GenerateRandomContractor(cfg.Email.UserDomain)
		if err := r.CreateContractor(contractor); err != nil {
			slog.Error("无法插入外包人员", "error", err)
			continue
		}
		contractors = append(contractors, contractor)
	}

	if len(workers) == 0 || len(contractors) == 0 {
		slog.Error("员工或外包人员插入失败，跳过后续数据")
		return
	}

	// 登记不可用日期
	for _, worker := range workers {
		for _, record := range utils.GenerateRandomUnavailability(worker.ID, rand.Intn(4)) {
			if err := r.CreateUnavailability(record); err != nil {
				slog.Error("无法插入不可用日期", "error", err)
			}
		}
	}
	for _, contractor := range contractors {
		for _, record := range utils.GenerateRandomUnavailability(contractor.ID, rand.Intn(4)) {
			if err := r.CreateUnavailability(record); err != nil {
				slog.Error("无法插入不可用日期", "error", err)
			}
		}
	}

	// 插入工单，并给一部分已排期的工单随机指派人员
	jobs := make([]*domain.Job, 0, 20)
	for i := 0; i < 20; i++ {
		job := utils.GenerateRandomJob()
		if err := r.CreateJob(job); err != nil {
			slog.Error("无法插入工单", "error", err)
			continue
		}
		jobs = append(jobs, job)
	}

	for _, job := range jobs {
		if job.StartTime == nil || rand.Intn(2) == 0 {
			continue
		}

		assignments := make([]domain.Assignment, 0, 2)
		worker := workers[rand.Intn(len(workers))]
		workerID := worker.ID
		assignments = append(assignments, domain.Assignment{JobID: job.ID, WorkerID: &workerID})
		if rand.Intn(3) == 0 {
			contractorID := contractors[rand.Intn(len(contractors))].ID
			assignments = append(assignments, domain.Assignment{JobID: job.ID, ContractorID: &contractorID})
		}

		job.Assignments = assignments
		if err := r.ReplaceJobAssignments(job); err != nil {
			slog.Error("无法插入指派", "error", err)
		}
	}

	// 构造一个手工冲突：先指派，再把员工标记为当天不可用
	// 这样的工单不会被写入拒绝，但应该在视图中被标记为冲突
	start := time.Now().AddDate(0, 0, 3)
	end := start.AddDate(0, 0, 2)
	conflictJob := &domain.Job{
		Title:     "中央空调保养（演示冲突）",
		Status:    domain.JobStatusScheduled,
		Priority:  domain.JobPriorityHigh,
		StartTime: &start,
		EndTime:   &end,
	}
	if err := r.CreateJob(conflictJob); err != nil {
		slog.Error("无法插入演示工单", "error", err)
		return
	}

	workerID := workers[0].ID
	conflictJob.Assignments = []domain.Assignment{{JobID: conflictJob.ID, WorkerID: &workerID}}
	if err := r.ReplaceJobAssignments(conflictJob); err != nil {
		slog.Error("无法插入演示指派", "error", err)
		return
	}

	record := &domain.Unavailability{
		AssigneeID: workerID,
		Date:       schedule.TruncateToDate(start.AddDate(0, 0, 1)).Format(schedule.DateLayout),
	}
	if err := r.CreateUnavailability(record); err != nil {
		slog.Error("无法插入演示不可用日期", "error", err)
		return
	}

	slog.Info("演示数据插入完成",
		"workers", len(workers),
		"contractors", len(contractors),
		"jobs", len(jobs)+1,
	)
}
