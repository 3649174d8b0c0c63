package domain

// Outcome 是一次排班请求的最终处置结果
// 所有业务上可预期的失败都用 Outcome 表达而不是 error，
// error 只留给真正的意外情况（比如后端表格不可达）
type Outcome string

const (
	OutcomeUpdateSuccess    Outcome = "update_success"
	OutcomeDeleteSuccess    Outcome = "delete_success"
	OutcomeInvalidAction    Outcome = "invalid_action"
	OutcomeInvalidName      Outcome = "invalid_name"
	OutcomeInvalidTime      Outcome = "invalid_time"
	OutcomeEntryExists      Outcome = "entry_exists"
	OutcomeDayLimitReached  Outcome = "day_limit_reached"
	OutcomeStoreUnavailable Outcome = "store_unavailable"
)

// IsSuccess 报告该结果是否表示请求已经按用户意图生效
func (o Outcome) IsSuccess() bool {
	return o == OutcomeUpdateSuccess || o == OutcomeDeleteSuccess
}

// IsRetryable 报告该结果是否是暂时性的，原样重发请求可能成功
func (o Outcome) IsRetryable() bool {
	return o == OutcomeStoreUnavailable
}
