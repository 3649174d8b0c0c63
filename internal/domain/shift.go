package domain

import "slices"

// FieldAbsent 是意图提取模型无法确定某个字段时填充的占位符，
// 校验链会把它当作非法值处理，绝不允许它流入班表
const FieldAbsent = "N/A"

type Action string

const (
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
)

// ActionRequest 是从一条用户消息里提取出来的结构化排班请求，
// 每个请求只处理一次，处理完即丢弃
type ActionRequest struct {
	Action    string `json:"action"`
	Name      string `json:"-"` // 由平台身份解析得到，不来自模型
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AbsentRequest 返回一个所有字段都缺失的请求，
// 用于意图提取失败时的降级路径（校验链会判定为非法操作）
func AbsentRequest() *ActionRequest {
	return &ActionRequest{
		Action:    FieldAbsent,
		Day:       FieldAbsent,
		StartTime: FieldAbsent,
		EndTime:   FieldAbsent,
	}
}

// Days 是班表中固定的 7 个星期标签，顺序和表头列的顺序一致
var Days = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

func IsValidDay(label string) bool {
	return slices.Contains(Days, label)
}
