package repository

import (
	"context"
	"time"
)

// GetProjectAssignments 返回 员工ID -> 空格分隔项目标签串 的映射
func (r *Repository) GetProjectAssignments() (map[string]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT employee_id, string_agg(project, ' ' ORDER BY project)
		FROM employee_projects
		GROUP BY employee_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make(map[string]string)
	for rows.Next() {
		var employeeID, projects string
		if err := rows.Scan(&employeeID, &projects); err != nil {
			return nil, err
		}
		assignments[employeeID] = projects
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) AddProjectAssignment(employeeID string, project string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO employee_projects (employee_id, project)
		VALUES ($1, $2)
		ON CONFLICT (employee_id, project) DO NOTHING
	`

	if _, err := r.dbpool.ExecContext(ctx, query, employeeID, project); err != nil {
		return err
	}

	return nil
}

func (r *Repository) RemoveProjectAssignment(employeeID string, project string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM employee_projects WHERE employee_id = $1 AND project = $2
	`

	if _, err := r.dbpool.ExecContext(ctx, query, employeeID, project); err != nil {
		return err
	}

	return nil
}
