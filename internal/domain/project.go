package domain

type ProjectAction string

const (
	ProjectActionAdd    ProjectAction = "add"
	ProjectActionRemove ProjectAction = "remove"
)

// ProjectChange 是对某个员工项目归属的一次增删
type ProjectChange struct {
	EmployeeID string        `json:"employeeID"`
	Project    string        `json:"project"`
	Action     ProjectAction `json:"action"`
}
