package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"8000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN            string `env:"DSN,required"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout   int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		MaxOpenConns   int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns   int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime    int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Redis struct {
		Host     string `env:"HOST" envDefault:"localhost"`
		Port     int    `env:"PORT" envDefault:"6379"`
		Password string `env:"PASSWORD,required"`
		// 收到的 Messenger 消息 ID 的去重窗口，超过之后允许同一 ID 再次处理
		DedupExpiration int `env:"DEDUP_EXPIRATION" envDefault:"86400"`
	} `envPrefix:"REDIS_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"1209600"` // 14 天
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	InitialAdmin struct {
		Username string `env:"USERNAME" envDefault:"admin"`
		Password string `env:"PASSWORD,required"`
		FullName string `env:"FULL_NAME" envDefault:"管理员"`
		Email    string `env:"EMAIL,required"`
	} `envPrefix:"INITIAL_ADMIN_"`
	NewUser struct {
		PasswordLength int `env:"PASSWORD_LENGTH" envDefault:"12"`
	} `envPrefix:"NEW_USER_"`
	Email struct {
		UserDomain string `env:"USER_DOMAIN,required"`
		AdminEmail string `env:"ADMIN_EMAIL,required"` // 陌生用户告警的收件人
		SMTP       struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	Webhook struct {
		VerifyToken string `env:"VERIFY_TOKEN,required"`
	} `envPrefix:"WEBHOOK_"`
	Messenger struct {
		APIToken       string `env:"API_TOKEN,required"`
		GraphBaseURL   string `env:"GRAPH_BASE_URL" envDefault:"https://graph.facebook.com/v24.0"`
		RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"10"`
	} `envPrefix:"MESSENGER_"`
	LLM struct {
		APIKey         string `env:"API_KEY,required"`
		BaseURL        string `env:"BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai"`
		Model          string `env:"MODEL" envDefault:"gemini-2.5-flash"`
		RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"15"`
	} `envPrefix:"LLM_"`
	Sheets struct {
		SpreadsheetID   string `env:"SPREADSHEET_ID,required"`
		SheetName       string `env:"SHEET_NAME" envDefault:"Schedule"`
		CredentialsFile string `env:"CREDENTIALS_FILE,required"`
		RequestTimeout  int    `env:"REQUEST_TIMEOUT" envDefault:"10"`
		// 每一天最多允许几个不同的人排班
		DayCapacity int `env:"DAY_CAPACITY" envDefault:"3"`
	} `envPrefix:"SHEETS_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD,required"`
		} `envPrefix:"USER_"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
	}

	return cfg, nil
}
