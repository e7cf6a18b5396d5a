package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/fieldops-dev/field-dispatch/backend/internal/config"
	"github.com/fieldops-dev/field-dispatch/backend/internal/repository"
	"github.com/fieldops-dev/field-dispatch/backend/internal/seed"
	"github.com/fieldops-dev/field-dispatch/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var assigneeID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机员工, 3: 插入随机外包人员, 4: 插入随机工单, 5: 插入随机不可用日期, 6: 插入整套演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&assigneeID, "assignee-id", 0, "随机插入不可用日期的被指派人 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				worker := utils.GenerateRandomWorker(cfg.Email.UserDomain)
				if err := repo.CreateWorker(worker); err != nil {
					slog.Error("无法插入员工", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入员工成功", slog.Int("count", n-cnt))
		}
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的外包人员数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				contractor := utils.GenerateRandomContractor(cfg.Email.UserDomain)
				if err := repo.CreateContractor(contractor); err != nil {
					slog.Error("无法插入外包人员", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入外包人员成功", slog.Int("count", n-cnt))
		}
	case 4:
		if n <= 0 {
			slog.Error("请输入合法的工单数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				job := utils.GenerateRandomJob()
				if err := repo.CreateJob(job); err != nil {
					slog.Error("无法插入工单", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入工单成功", slog.Int("count", n-cnt))
		}
	case 5:
		if assigneeID <= 0 {
			slog.Error("请输入合法的被指派人 ID")
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的不可用日期数量")
			return
		}

		cnt := 0
		for _, record := range utils.GenerateRandomUnavailability(assigneeID, n) {
			if err := repo.CreateUnavailability(record); err != nil {
				slog.Error("无法插入不可用日期", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入不可用日期成功", slog.Int("count", cnt))
	case 6:
		seed.SeedDemoData(cfg, repo)
	default:
		slog.Error("指定的操作非法")
	}
}
