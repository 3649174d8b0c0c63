package intent

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/VndrewJ/AI-Shift-Scheduler/internal/config"
	"github.com/VndrewJ/AI-Shift-Scheduler/internal/domain"
)

// 系统提示词要求模型只做信息抽取，拿不准的字段一律填 N/A，
// 后面的校验链会把 N/A 当作非法值处理
const systemPrompt = "You are an expert scheduling assistant. Your task is to extract four pieces of " +
	"information from the user's message: the 'day', 'start_time', 'end_time', and 'action' of a " +
	"requested event. Times must be in 12-hour format with am/pm (e.g., '9am', '2pm', '5pm'). " +
	"The action will either be 'add', or 'delete'. " +
	"If any piece of information is missing or unclear, use the placeholder 'N/A'. " +
	"You must return the output as a JSON object with exactly the keys " +
	"\"action\", \"day\", \"start_time\" and \"end_time\"."

// Extractor 调用大模型把自由文本变成结构化排班请求
// BaseURL 可配置，默认走 Gemini 的 OpenAI 兼容端点
type Extractor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewExtractor(cfg *config.Config) *Extractor {
	clientConfig := openai.DefaultConfig(cfg.LLM.APIKey)
	if cfg.LLM.BaseURL != "" {
		clientConfig.BaseURL = cfg.LLM.BaseURL
	}

	return &Extractor{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.LLM.Model,
		timeout: time.Duration(cfg.LLM.RequestTimeout) * time.Second,
	}
}

// Extract 从一条消息中提取排班请求
// 任何调用或解析失败都降级成全 N/A 的请求而不是报错，
// 这样主流程永远能给用户一个回复，不会因为模型抖动而丢消息
func (e *Extractor) Extract(ctx context.Context, message string) *domain.ActionRequest {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("意图提取调用失败", "error", err)
		return domain.AbsentRequest()
	}
	if len(resp.Choices) == 0 {
		slog.Error("意图提取返回了空结果")
		return domain.AbsentRequest()
	}

	return decodeExtraction(resp.Choices[0].Message.Content)
}

// decodeExtraction 解析模型返回的 JSON，缺失的字段补成 N/A
func decodeExtraction(content string) *domain.ActionRequest {
	// 即使要求了 JSON 输出，模型偶尔还是会包一层 markdown 代码块
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var extracted struct {
		Action    string `json:"action"`
		Day       string `json:"day"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := json.Unmarshal([]byte(content), &extracted); err != nil {
		slog.Error("意图提取结果不是合法的 JSON", "error", err, "content", content)
		return domain.AbsentRequest()
	}

	req := domain.AbsentRequest()
	if extracted.Action != "" {
		req.Action = extracted.Action
	}
	if extracted.Day != "" {
		req.Day = extracted.Day
	}
	if extracted.StartTime != "" {
		req.StartTime = extracted.StartTime
	}
	if extracted.EndTime != "" {
		req.EndTime = extracted.EndTime
	}

	return req
}
