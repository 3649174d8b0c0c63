package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/VndrewJ/AI-Shift-Scheduler/internal/domain"
)

const (
	// MessageQueueName 是发往 Messenger 的回复队列
	MessageQueueName = "message_queue"
	// EmailQueueName 是管理员邮件队列
	EmailQueueName = "email_queue"
)

// webhookPayload 是 Messenger 回调的事件信封，只取我们关心的字段
type webhookPayload struct {
	Entry []struct {
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message *struct {
				MID  string `json:"mid"`
				Text string `json:"text"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

// VerifyWebhook 处理平台的一次性验证握手
// 平台要求原样返回 hub.challenge 的纯文本，返回 JSON 会导致验证失败
func (h *Handler) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("hub.mode") == "subscribe" && query.Get("hub.verify_token") == h.config.Webhook.VerifyToken {
		h.writeText(w, http.StatusOK, query.Get("hub.challenge"))
		return
	}

	h.writeText(w, http.StatusForbidden, "Verification failed")
}

// ReceiveWebhook 接收消息事件
// 必须立刻返回 200，否则平台会不断重发同一事件，
// 真正的处理全部放到 goroutine 里异步完成
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := h.readJSON(r, &payload); err != nil {
		// 解析不了也要确认收到，避免平台重试一个永远处理不了的事件
		slog.Warn("无法解析 webhook 事件", "error", err)
		h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	for _, entry := range payload.Entry {
		for _, messaging := range entry.Messaging {
			if messaging.Message == nil || messaging.Message.Text == "" {
				continue
			}
			go h.processMessage(messaging.Sender.ID, messaging.Message.MID, messaging.Message.Text)
		}
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// processMessage 是一条消息的完整处理流水线：
// 去重 -> 意图提取 -> 身份解析 -> 校验并落表 -> 审计 -> 发布回复
// 任何意外都不允许让消息无声消失，用户至少要收到一句道歉
func (h *Handler) processMessage(senderID, messageID, text string) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("处理消息时发生 panic", "panic", p, "sender", senderID)
			fmt.Print(string(debug.Stack()))
			h.publishReply(senderID, genericErrorReply)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if h.isDuplicateDelivery(ctx, messageID) {
		return
	}

	req := h.extractor.Extract(ctx, text)

	name, err := h.names.GetUserName(ctx, senderID)
	if err != nil {
		// 解析不到姓名就让校验链去报 InvalidName，回复模板是一致的
		slog.Error("无法解析发送者姓名", "error", err, "sender", senderID)
	}
	req.Name = name

	outcome, err := h.shifts.Apply(ctx, req)
	if err != nil {
		slog.Error("排班请求处理失败", "error", err, "name", req.Name, "day", req.Day, "outcome", outcome)
	}
	slog.Info("已处理排班请求", "name", req.Name, "day", req.Day, "action", req.Action, "outcome", outcome)

	h.recordShiftChange(req, outcome, domain.SourceMessenger)

	if outcome == domain.OutcomeInvalidName {
		h.publishUnknownNameAlert(req, senderID)
	}

	h.publishReply(senderID, ReplyText(outcome, req))
}

// isDuplicateDelivery 用 redis 对消息 ID 做一次 SETNX，
// 平台在确认超时后会重发同一事件，不去重就会把同一个班次处理两遍
func (h *Handler) isDuplicateDelivery(ctx context.Context, messageID string) bool {
	if messageID == "" {
		return false
	}

	key := fmt.Sprintf("webhook_mid_%s", messageID)
	acquired, err := h.redisClient.SetNX(ctx, key, 1, time.Duration(h.config.Redis.DedupExpiration)*time.Second).Result()
	if err != nil {
		// redis 出问题时宁可重复处理也不要丢消息
		slog.Error("消息去重检查失败", "error", err, "mid", messageID)
		return false
	}
	if !acquired {
		slog.Info("忽略重复投递的消息", "mid", messageID)
		return true
	}

	return false
}

func (h *Handler) recordShiftChange(req *domain.ActionRequest, outcome domain.Outcome, source domain.ChangeSource) {
	change := &domain.ShiftChange{
		PersonName: req.Name,
		Day:        req.Day,
		Action:     req.Action,
		Outcome:    outcome,
		Source:     source,
	}
	if outcome == domain.OutcomeUpdateSuccess {
		change.Entry = fmt.Sprintf("%s-%s", req.StartTime, req.EndTime)
	}

	if err := h.repository.InsertShiftChange(change); err != nil {
		slog.Error("无法写入审计记录", "error", err)
	}
}

func (h *Handler) publishReply(recipientID, text string) {
	body, err := json.Marshal(domain.OutboundMessage{
		RecipientID: recipientID,
		Text:        text,
	})
	if err != nil {
		slog.Error("无法序列化回复消息", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.queueChannel.PublishWithContext(
		ctx,
		"",
		MessageQueueName,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Error("无法发布回复消息", "error", err, "recipient", recipientID)
	}
}

// publishUnknownNameAlert 在陌生用户请求排班时通知管理员，
// InvalidName 只能由管理员干预解决，用户自己重试没有意义
func (h *Handler) publishUnknownNameAlert(req *domain.ActionRequest, senderID string) {
	mailMessage := domain.MailMessage{
		Type: "unknown_name_alert",
		To:   h.config.Email.AdminEmail,
		Data: domain.UnknownNameMailData{
			Name:     req.Name,
			Day:      req.Day,
			SenderID: senderID,
		},
	}

	body, err := json.Marshal(mailMessage)
	if err != nil {
		slog.Error("无法序列化告警邮件", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.queueChannel.PublishWithContext(
		ctx,
		"",
		EmailQueueName,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Error("无法发布告警邮件", "error", err)
	}
}
