package config

import "time"

// Config конфигурация приложения из config/interview.yaml
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Interview InterviewConfig `yaml:"interview"`
	Export    ExportConfig    `yaml:"export"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type StorageConfig struct {
	Driver        string        `yaml:"driver" validate:"oneof=memory file redis sqlite"`
	Dir           string        `yaml:"dir"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" validate:"min=0"`
	RedisTTL      time.Duration `yaml:"redis_ttl" validate:"min=0"`
	SQLitePath    string        `yaml:"sqlite_path"`
}

// InterviewConfig тайминги интервью
type InterviewConfig struct {
	// QuestionDelay пауза между ответом и следующим вопросом
	QuestionDelay time.Duration `yaml:"question_delay" validate:"min=0"`
	// TickInterval длительность одной секунды обратного отсчета
	TickInterval time.Duration `yaml:"tick_interval" validate:"gt=0"`
}

type ExportConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
	Dir      string `yaml:"dir"`
}

type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Default возвращает конфигурацию, используемую без файла
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			AllowedOrigins:  []string{"http://localhost:3000"},
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Driver:     "file",
			Dir:        "data",
			RedisAddr:  "localhost:6379",
			SQLitePath: "data/interviews.db",
		},
		Interview: InterviewConfig{
			QuestionDelay: time.Second,
			TickInterval:  time.Second,
		},
		Export: ExportConfig{
			Schedule: "0 2 * * *",
			Dir:      "exports",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
