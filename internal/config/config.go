package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config 멤버십 서비스 설정 구조체
type Config struct {
	// 서비스 기본 정보
	Service struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"service"`

	// HTTP 서버 설정
	Server struct {
		Port    string `yaml:"port"`
		Timeout int    `yaml:"timeout"`
		Debug   bool   `yaml:"debug"`
	} `yaml:"server"`

	// 데이터베이스 설정
	Database struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Name            string `yaml:"name"`
		User            string `yaml:"user"`
		Password        string `yaml:"password"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
	} `yaml:"database"`

	// Redis 설정
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	// JWT 설정 (ES256 PEM 키 페어)
	JWT struct {
		PrivateKey         string `yaml:"private_key"`
		PublicKey          string `yaml:"public_key"`
		Issuer             string `yaml:"issuer"`
		SessionTokenExpiry int    `yaml:"session_token_expiry"` // 시간 단위
		MfaTokenExpiry     int    `yaml:"mfa_token_expiry"`     // 시간 단위
	} `yaml:"jwt"`

	// Email 설정
	Email struct {
		SenderEmail string `yaml:"sender_email"`
		SenderName  string `yaml:"sender_name"`
		SMTPHost    string `yaml:"smtp_host"`
		SMTPPort    int    `yaml:"smtp_port"`
		SMTPUser    string `yaml:"smtp_user"`
		SMTPPass    string `yaml:"smtp_pass"`
	} `yaml:"email"`

	// SMS 설정
	SMS struct {
		SenderID string `yaml:"sender_id"`
	} `yaml:"sms"`

	// 로그 설정
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	// 로거 인스턴스
	Logger *zap.Logger `yaml:"-"`
}

var (
	// AppConfig는 어플리케이션 전체에서 사용하는 설정 인스턴스입니다.
	AppConfig *Config
)

// configPaths 설정 파일 탐색 경로 (앞선 경로 우선)
var configPaths = []string{
	"./configs.yaml",
	"./configs/configs.yaml",
	"/etc/membership-server/configs.yaml",
}

// Load 설정 파일 로드
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		for _, p := range configPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return nil, fmt.Errorf("설정 파일을 찾을 수 없습니다 (CONFIG_PATH 또는 %v)", configPaths)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("설정 파일 읽기 실패: %w", err)
	}

	appConfig := &Config{}
	if err := yaml.Unmarshal(raw, appConfig); err != nil {
		return nil, fmt.Errorf("설정 파일 파싱 실패: %w", err)
	}

	applyDefaults(appConfig)

	// 로거 생성
	appConfig.Logger, err = newLogger(appConfig)
	if err != nil {
		return nil, fmt.Errorf("로거 생성 실패: %w", err)
	}

	// 전역 변수에 설정
	AppConfig = appConfig

	return appConfig, nil
}

// applyDefaults 비어있는 항목에 기본값 적용
func applyDefaults(c *Config) {
	if c.Service.Name == "" {
		c.Service.Name = "membership-server"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = c.Service.Name
	}
	if c.JWT.SessionTokenExpiry == 0 {
		c.JWT.SessionTokenExpiry = 24
	}
	if c.JWT.MfaTokenExpiry == 0 {
		c.JWT.MfaTokenExpiry = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// newLogger 설정 기반 zap 로거 생성
func newLogger(c *Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if c.Server.Debug {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("잘못된 로그 레벨 %q: %w", c.Log.Level, err)
	}
	zapCfg.Level = level
	zapCfg.Encoding = c.Log.Format

	return zapCfg.Build()
}
