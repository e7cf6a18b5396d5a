package domain

import "time"

type Worker struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type Contractor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type AssigneeKind string

const (
	AssigneeKindWorker     AssigneeKind = "worker"
	AssigneeKindContractor AssigneeKind = "contractor"
)

// Assignee 是在指派边界上解析出来的带类型的人员引用
// 解析规则：ID 在员工表中即为员工，否则视为外包人员
type Assignee struct {
	Kind AssigneeKind `json:"kind"`
	ID   int64        `json:"id"`
}

// Unavailability 表示某个人员在某一天不可用
// (AssigneeID, Date) 是集合语义，重复插入没有意义
type Unavailability struct {
	ID         int64     `json:"id"`
	AssigneeID int64     `json:"assigneeID"`
	Date       string    `json:"date"` // 格式为 2006-01-02，按天粒度，不含时刻
	CreatedAt  time.Time `json:"createdAt"`
}
