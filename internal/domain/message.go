package domain

// OutboundMessage 是发往 message_queue 的回复任务，
// 由 messenger worker 消费并通过 Facebook Graph API 发送
type OutboundMessage struct {
	RecipientID string `json:"recipientId"`
	Text        string `json:"text"`
}

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// UnknownNameMailData 是陌生用户请求排班时发给管理员的告警内容
type UnknownNameMailData struct {
	Name     string `json:"name"`
	Day      string `json:"day"`
	SenderID string `json:"senderId"`
}
