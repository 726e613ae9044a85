package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/worksheet"
)

const notifyQueueName = "notify_queue"

// GetWeeklySchedule 返回某一周的工作表：全部员工、排班、项目归属和总工时。
// date 缺省为本周，lang 缺省为配置的显示语言。
func (h *Handler) GetWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		parsed, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			h.errorResponse(w, r, "日期格式错误，应为 YYYY-MM-DD")
			return
		}
		date = parsed
	}

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = h.config.Worksheet.Language
	}

	weekStart := worksheet.WeekStartOf(date)

	employees, err := h.repository.GetEmployeesForWeek(weekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 合并项目归属并算出每个人的总工时
	assignments, err := h.repository.GetProjectAssignments()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	for _, employee := range employees {
		employee.Projects = assignments[employee.ID]
		employee.TotalHours = worksheet.CalculateWorkHours(employee.Schedule)
	}

	h.successResponse(w, r, "获取周工作表成功", map[string]any{
		"employees":   employees,
		"currentWeek": worksheet.FormatWeekRange(weekStart, weekStart.AddDate(0, 0, 6), lang),
	})
}

// UpdateSchedule 应用客户端聚合好的一批待同步变更
func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req domain.ScheduleUpdateRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if len(req.Changes) == 0 {
		h.errorResponse(w, r, "没有需要同步的变更")
		return
	}

	for _, change := range req.Changes {
		if change.EmployeeID == "" {
			h.errorResponse(w, r, "变更缺少员工ID")
			return
		}
		if _, err := time.Parse("2006-01-02", change.WeekStart); err != nil {
			h.errorResponse(w, r, "周起始日期格式错误，应为 YYYY-MM-DD")
			return
		}
		for day, pd := range change.Days {
			if !domain.IsWeekday(day) {
				h.errorResponse(w, r, fmt.Sprintf("无效的星期键 %q", day))
				return
			}
			if pd.IsClear() {
				continue
			}
			// 非清空的变更必须带一对合法时刻
			if pd.Start == nil || pd.End == nil || !worksheet.IsValidTimeOfDay(*pd.Start) || !worksheet.IsValidTimeOfDay(*pd.End) {
				h.errorResponse(w, r, fmt.Sprintf("%s 的时刻格式错误，应为 HH:MM", day))
				return
			}
		}
	}

	if err := h.repository.ApplyScheduleChanges(req.Changes); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 通知邮件走消息队列，失败不影响本次同步
	if err := h.publishScheduleChanged(req.Changes); err != nil {
		h.logInternalServerError(r, err)
	}

	h.successResponse(w, r, "同步成功", nil)
}

// publishScheduleChanged 把每条变更对应员工的最新周表摘要投到通知队列
func (h *Handler) publishScheduleChanged(changes []domain.PendingChange) error {
	if h.config.Email.NotifyTo == "" {
		return nil
	}

	// 同一周的变更共用一次重新拉取
	weeks := make(map[string][]*domain.Employee)

	for _, change := range changes {
		employees, fetched := weeks[change.WeekStart]
		if !fetched {
			weekStart, err := time.Parse("2006-01-02", change.WeekStart)
			if err != nil {
				return err
			}
			employees, err = h.repository.GetEmployeesForWeek(weekStart)
			if err != nil {
				return err
			}
			weeks[change.WeekStart] = employees
		}

		var employee *domain.Employee
		for _, e := range employees {
			if e.ID == change.EmployeeID {
				employee = e
				break
			}
		}
		if employee == nil {
			continue
		}

		lang := h.config.Worksheet.Language
		days := make(map[string]string, len(domain.Weekdays))
		for i, day := range domain.Weekdays {
			ds := employee.Schedule[day]
			if ds.IsEmpty() {
				days[worksheet.WeekdayLabel(lang, i)] = "休"
			} else {
				days[worksheet.WeekdayLabel(lang, i)] = fmt.Sprintf("%s - %s", ds.Start, ds.End)
			}
		}

		weekStart, _ := time.Parse("2006-01-02", change.WeekStart)
		message := domain.MailMessage{
			Type: "schedule_changed",
			To:   h.config.Email.NotifyTo,
			Data: domain.ScheduleChangedMailData{
				EmployeeName: employee.Name,
				WeekLabel:    worksheet.FormatWeekRange(weekStart, weekStart.AddDate(0, 0, 6), lang),
				TotalHours:   worksheet.CalculateWorkHours(employee.Schedule),
				Days:         days,
			},
		}

		body, err := json.Marshal(message)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
		err = h.notifyChannel.PublishWithContext(
			ctx,
			"",
			notifyQueueName,
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        body,
			},
		)
		cancel()
		if err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := &domain.Employee{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Schedule: domain.NewWeekSchedule(),
	}

	if err := h.repository.CreateEmployee(employee); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "添加员工成功", employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.errorResponse(w, r, "员工ID无效")
		return
	}

	if err := h.repository.DeleteEmployee(id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}
