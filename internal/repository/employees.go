package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

// GetEmployeesForWeek 拉取全部员工以及他们在 weekStart 那一周的排班。
// 没有排班记录的日子留空，七个 weekday 键由调用方 Normalize 补齐。
func (r *Repository) GetEmployeesForWeek(weekStart time.Time) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			e.id,
			e.name,
			e.created_at,
			e.version,
			es.day,
			es.start_time,
			es.end_time
		FROM employees e
		LEFT JOIN employee_schedules es
			ON e.id = es.employee_id AND es.week_start = $1
		ORDER BY e.created_at, e.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, weekStart.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	employeesMap := make(map[string]*domain.Employee)

	for rows.Next() {
		var row struct {
			ID        string
			Name      string
			CreatedAt time.Time
			Version   int32

			Day       sql.NullString
			StartTime sql.NullString
			EndTime   sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.CreatedAt,
			&row.Version,
			&row.Day,
			&row.StartTime,
			&row.EndTime,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		employee, exists := employeesMap[row.ID]
		if !exists {
			// 第一次查到这个员工，初始化一周的空排班
			employee = &domain.Employee{
				ID:        row.ID,
				Name:      row.Name,
				Schedule:  domain.NewWeekSchedule(),
				CreatedAt: row.CreatedAt,
				Version:   row.Version,
			}
			employeesMap[row.ID] = employee
			employees = append(employees, employee)
		}

		// day 为空表示这个员工这一周没有任何排班记录
		if !row.Day.Valid {
			continue
		}

		if domain.IsWeekday(row.Day.String) {
			employee.Schedule[row.Day.String] = domain.DaySchedule{
				Start: row.StartTime.String,
				End:   row.EndTime.String,
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) GetEmployeeByID(id string) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, created_at, version FROM employees WHERE id = $1
	`

	employee := &domain.Employee{
		ID:       id,
		Schedule: domain.NewWeekSchedule(),
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&employee.Name, &employee.CreatedAt, &employee.Version); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO employees (id, name)
		VALUES ($1, $2)
		RETURNING created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, employee.ID, employee.Name).Scan(&employee.CreatedAt, &employee.Version); err != nil {
		return err
	}

	return nil
}

// DeleteEmployee 删除员工，排班与项目归属随外键级联删除
func (r *Repository) DeleteEmployee(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM employees WHERE id = $1
	`

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ApplyScheduleChanges 在一个事务里应用一批待同步变更：
// 清空操作删除当天记录，其余按 (员工, 周, 天) upsert。
func (r *Repository) ApplyScheduleChanges(changes []domain.PendingChange) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery := `
		DELETE FROM employee_schedules
		WHERE employee_id = $1 AND week_start = $2 AND day = $3
	`
	upsertQuery := `
		INSERT INTO employee_schedules (employee_id, week_start, day, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, week_start, day)
		DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time
	`

	for _, change := range changes {
		// 固定按 weekday 顺序写，保证同一批次内的确定性
		for _, day := range domain.Weekdays {
			pd, exists := change.Days[day]
			if !exists {
				continue
			}

			if pd.IsClear() {
				if _, err := tx.ExecContext(ctx, deleteQuery, change.EmployeeID, change.WeekStart, day); err != nil {
					return err
				}
				continue
			}

			params := []any{change.EmployeeID, change.WeekStart, day, *pd.Start, *pd.End}
			if _, err := tx.ExecContext(ctx, upsertQuery, params...); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
