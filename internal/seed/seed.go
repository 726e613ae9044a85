package seed

import (
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/staff-worksheet/internal/config"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/repository"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/utils"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/worksheet"
)

const seedUserCount = 5

// Run 往数据库里填充随机员工、本周排班、项目归属和若干员工账号
func Run(cfg *config.Config, repo *repository.Repository) {
	weekStart := worksheet.WeekStartOf(time.Now()).Format("2006-01-02")

	for i := 0; i < cfg.Seed.EmployeeCount; i++ {
		employee := utils.GenerateRandomEmployee()
		if err := repo.CreateEmployee(employee); err != nil {
			slog.Error("创建员工失败", "name", employee.Name, "error", err)
			continue
		}

		change := domain.PendingChange{
			EmployeeID: employee.ID,
			WeekStart:  weekStart,
			Days:       make(map[string]domain.PendingDay),
		}
		for _, day := range domain.Weekdays {
			ds := employee.Schedule[day]
			if ds.IsEmpty() {
				continue
			}
			change.Days[day] = domain.PendingDay{Start: &ds.Start, End: &ds.End}
		}
		if len(change.Days) > 0 {
			if err := repo.ApplyScheduleChanges([]domain.PendingChange{change}); err != nil {
				slog.Error("写入排班失败", "name", employee.Name, "error", err)
			}
		}

		for _, project := range utils.GenerateRandomProjects() {
			if err := repo.AddProjectAssignment(employee.ID, project); err != nil {
				slog.Error("写入项目归属失败", "name", employee.Name, "project", project, "error", err)
			}
		}
	}

	for i := 0; i < seedUserCount; i++ {
		user, err := utils.GenerateRandomUser(cfg.Seed.UserPassword, cfg.Seed.EmailDomain)
		if err != nil {
			slog.Error("生成随机用户失败", "error", err)
			continue
		}
		if err := repo.CreateUser(user); err != nil {
			slog.Error("创建用户失败", "username", user.Username, "error", err)
		}
	}

	slog.Info("填充完成", "employees", cfg.Seed.EmployeeCount, "users", seedUserCount, "weekStart", weekStart)
}
