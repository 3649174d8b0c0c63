package handler

import (
	"fmt"

	"github.com/VndrewJ/AI-Shift-Scheduler/internal/domain"
)

// Messenger 上的用户是值班人员而不是管理员，回复统一用英文
const genericErrorReply = "❌ An unknown error occurred. Please try again."

// ReplyText 把处理结果翻译成发给用户的 Messenger 文案
// 每一种结果都有固定的模板，方便用户截图和管理员对照排查
func ReplyText(outcome domain.Outcome, req *domain.ActionRequest) string {
	switch outcome {
	case domain.OutcomeUpdateSuccess:
		return fmt.Sprintf(
			"✅ All set, %s! Your shift has been scheduled:\n📅 Day: %s\n🕐 Start: %s\n🕑 End: %s",
			req.Name, req.Day, req.StartTime, req.EndTime,
		)
	case domain.OutcomeDeleteSuccess:
		return fmt.Sprintf("✅ Done, %s! Your shift on %s has been removed.", req.Name, req.Day)
	case domain.OutcomeInvalidAction:
		return "❌ The action you requested is invalid. Please specify 'add' or 'delete'."
	case domain.OutcomeInvalidName:
		return "❌ I couldn't find your name in the system. Please contact an admin."
	case domain.OutcomeInvalidTime:
		return "❌ The times you provided are invalid. Please use times between 9am and 6pm, and make sure the end time is after the start time."
	case domain.OutcomeEntryExists:
		return fmt.Sprintf("❌ You already have a shift on %s. Please delete it first if you want to change it.", req.Day)
	case domain.OutcomeDayLimitReached:
		return "❌ Sorry, this day is already fully booked. Please choose another day."
	case domain.OutcomeStoreUnavailable:
		return "❌ The schedule is temporarily unavailable. Please try again in a few minutes."
	default:
		return genericErrorReply
	}
}
