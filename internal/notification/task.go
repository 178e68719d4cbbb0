package notification

import "context"

type TaskKind string

const (
	TaskOrderConfirmation TaskKind = "order_confirmation"
	TaskAdminAlert        TaskKind = "admin_alert"
	TaskVerificationEmail TaskKind = "verification_email"
	TaskRecoveryEmail     TaskKind = "recovery_email"
)

// 通知タスク。キューにJSONで流す
type Task struct {
	Kind    TaskKind `json:"kind"`
	OrderID int64    `json:"order_id,omitempty"`
	Email   string   `json:"email,omitempty"`
	Token   string   `json:"token,omitempty"`
}

// タスクの投入口。HTTPリクエストの中では投げるだけで待たない
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
}

// ワーカーが消費する側
type Source interface {
	Next(ctx context.Context) (Task, error)
}
