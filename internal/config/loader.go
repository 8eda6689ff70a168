package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Load загружает конфигурацию из YAML файла поверх значений по умолчанию,
// применяет переменные окружения и проверяет результат. Отсутствие файла
// не считается ошибкой.
func Load(filename string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
		}
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}
	return config, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return err
	}

	switch config.Storage.Driver {
	case "file":
		if config.Storage.Dir == "" {
			return fmt.Errorf("storage.dir обязателен для драйвера file")
		}
	case "redis":
		if config.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr обязателен для драйвера redis")
		}
	case "sqlite":
		if config.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path обязателен для драйвера sqlite")
		}
	}

	if config.Export.Enabled {
		if config.Export.Schedule == "" {
			return fmt.Errorf("export.schedule обязателен при включенном экспорте")
		}
		if config.Export.Dir == "" {
			return fmt.Errorf("export.dir обязателен при включенном экспорте")
		}
	}

	return nil
}
