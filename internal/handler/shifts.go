package handler

import (
	"net/http"
	"strconv"

	"github.com/VndrewJ/AI-Shift-Scheduler/internal/domain"
)

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	grid, err := h.store.Snapshot(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班表成功", grid)
}

// CreateShift 是协调员替值班人员代为排班的入口
// 和 Messenger 入口走同一条校验链，结果也一样要留痕
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name" validate:"required"`
		Day       string `json:"day" validate:"required"`
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request := &domain.ActionRequest{
		Action:    string(domain.ActionAdd),
		Name:      req.Name,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}

	outcome, err := h.shifts.Apply(r.Context(), request)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.recordShiftChange(request, outcome, domain.SourceAdmin)
	h.outcomeResponse(w, r, outcome)
}

func (h *Handler) RemoveShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
		Day  string `json:"day" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request := &domain.ActionRequest{
		Action: string(domain.ActionDelete),
		Name:   req.Name,
		Day:    req.Day,
		// 删除只看姓名和星期，时间字段不参与
		StartTime: domain.FieldAbsent,
		EndTime:   domain.FieldAbsent,
	}

	outcome, err := h.shifts.Apply(r.Context(), request)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.recordShiftChange(request, outcome, domain.SourceAdmin)
	h.outcomeResponse(w, r, outcome)
}

// outcomeResponse 统一管理端排班操作的响应：HTTP 层永远 200，
// 业务成败通过 success 字段和 outcome 表达
func (h *Handler) outcomeResponse(w http.ResponseWriter, r *http.Request, outcome domain.Outcome) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: outcome.IsSuccess(),
		Message: operatorMessage(outcome),
		Data:    map[string]domain.Outcome{"outcome": outcome},
	})
}

func (h *Handler) GetShiftChanges(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.errorResponse(w, r, "limit 参数必须是正整数")
			return
		}
		limit = parsed
	}

	changes, err := h.repository.GetRecentShiftChanges(limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取变更记录成功", changes)
}

// operatorMessage 是给管理端的中文结果说明，和发给用户的英文回复互相独立
func operatorMessage(outcome domain.Outcome) string {
	switch outcome {
	case domain.OutcomeUpdateSuccess:
		return "排班成功"
	case domain.OutcomeDeleteSuccess:
		return "删除成功"
	case domain.OutcomeInvalidAction:
		return "无效的操作类型"
	case domain.OutcomeInvalidName:
		return "花名册中不存在该姓名"
	case domain.OutcomeInvalidTime:
		return "时间不合法"
	case domain.OutcomeEntryExists:
		return "该时段已有排班，请先删除"
	case domain.OutcomeDayLimitReached:
		return "该天排班人数已满"
	case domain.OutcomeStoreUnavailable:
		return "班表暂时不可用，请稍后重试"
	default:
		return "未知错误"
	}
}
