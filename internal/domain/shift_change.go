package domain

import "time"

type ChangeSource string

const (
	SourceMessenger ChangeSource = "messenger"
	SourceAdmin     ChangeSource = "admin"
)

// ShiftChange 是一条排班变更的审计记录
// 班表本身只保留最终状态，历史只能从这里追溯
type ShiftChange struct {
	ID         int64        `json:"id"`
	PersonName string       `json:"personName"`
	Day        string       `json:"day"`
	Action     string       `json:"action"`
	Entry      string       `json:"entry"` // 成功 add 时写入的时间段，其余为空
	Outcome    Outcome      `json:"outcome"`
	Source     ChangeSource `json:"source"`
	CreatedAt  time.Time    `json:"createdAt"`
}
