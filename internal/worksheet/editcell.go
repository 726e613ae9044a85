package worksheet

import (
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

// CellRef 标识表格里的一个单元格
type CellRef struct {
	EmployeeID string
	Day        string
}

// CommitOutcome 是一次提交尝试的结果
type CommitOutcome int

const (
	// CommitNoop 什么都不用做，也不入队
	CommitNoop CommitOutcome = iota
	// CommitRollback 回滚到存量值，放弃这次编辑
	CommitRollback
	// CommitApplied 合并后的值应当写入存量并入队
	CommitApplied
)

// ResolveCommit 对一次提交尝试做校验，返回应当写入的值与结果。
// editedStart / editedEnd 为空串表示该输入框被留空。
//
// 注意第 2 条规则：存量非空而两个输入框都被清空时，行为是回滚到存量值
// 而不是清空当天排班。清空只能通过专门的清除操作（见 Aggregator.EnqueueClear）。
func ResolveCommit(stored domain.DaySchedule, editedStart, editedEnd string) (domain.DaySchedule, CommitOutcome) {
	bothEmpty := editedStart == "" && editedEnd == ""

	// 1. 存量与编辑值都为空
	if stored.IsEmpty() && bothEmpty {
		return stored, CommitNoop
	}

	// 2. 存量非空、两个输入框都被清空
	if !stored.IsEmpty() && bothEmpty {
		return stored, CommitRollback
	}

	// 3. 任一非空编辑值格式不合法
	if editedStart != "" && !IsValidTimeOfDay(editedStart) {
		return stored, CommitRollback
	}
	if editedEnd != "" && !IsValidTimeOfDay(editedEnd) {
		return stored, CommitRollback
	}

	// 4. 存量为空时必须两个框都填了才能新建
	if stored.IsEmpty() && (editedStart == "" || editedEnd == "") {
		return stored, CommitNoop
	}

	// 5. 按字段合并：编辑值优先，留空的框沿用存量
	merged := stored
	if editedStart != "" {
		merged.Start = editedStart
	}
	if editedEnd != "" {
		merged.End = editedEnd
	}
	return merged, CommitApplied
}

// EditSession 跟踪全局唯一的编辑态单元格。
// 打开一个新单元格会直接丢弃上一个单元格的未提交草稿，不会自动提交——
// 这是工作表一直以来的行为，保留。
type EditSession struct {
	active     *CellRef
	DraftStart string
	DraftEnd   string
}

func NewEditSession() *EditSession {
	return &EditSession{}
}

// Editing 返回当前处于编辑态的单元格，没有则为 nil
func (s *EditSession) Editing() *CellRef {
	return s.active
}

// IsEditing 判断某个单元格是否处于编辑态
func (s *EditSession) IsEditing(employeeID, day string) bool {
	return s.active != nil && s.active.EmployeeID == employeeID && s.active.Day == day
}

// Open 让某个单元格进入编辑态，草稿预填存量值
func (s *EditSession) Open(employeeID, day string, stored domain.DaySchedule) {
	s.active = &CellRef{EmployeeID: employeeID, Day: day}
	s.DraftStart = stored.Start
	s.DraftEnd = stored.End
}

// Cancel 丢弃草稿回到查看态，不产生任何修改
func (s *EditSession) Cancel() {
	s.active = nil
	s.DraftStart = ""
	s.DraftEnd = ""
}

// Commit 对当前草稿做提交校验并结束编辑态
func (s *EditSession) Commit(stored domain.DaySchedule) (domain.DaySchedule, CommitOutcome) {
	if s.active == nil {
		return stored, CommitNoop
	}
	merged, outcome := ResolveCommit(stored, s.DraftStart, s.DraftEnd)
	s.Cancel()
	return merged, outcome
}
