package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"interview-assistant/internal/interview"
)

// Repository хранит незавершенное интервью и архив в Store
type Repository struct {
	kv     Store
	logger *zap.Logger
}

var _ interview.Store = (*Repository)(nil)

func NewRepository(kv Store, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{kv: kv, logger: logger}
}

// SaveInProgress перезаписывает незавершенное интервью
func (r *Repository) SaveInProgress(ctx context.Context, s *interview.Session) error {
	data, err := json.Marshal(newInProgressRecord(s))
	if err != nil {
		return fmt.Errorf("ошибка сериализации незавершенного интервью: %w", err)
	}
	if err := r.kv.Set(ctx, KeyInProgress, data); err != nil {
		return fmt.Errorf("ошибка сохранения незавершенного интервью: %w", err)
	}
	return nil
}

// LoadInProgress возвращает сохраненную сессию или nil, если ее нет.
// Нечитаемые или поврежденные данные считаются отсутствием сессии.
func (r *Repository) LoadInProgress(ctx context.Context) *interview.Session {
	data, err := r.kv.Get(ctx, KeyInProgress)
	if err != nil {
		r.logger.Warn("failed to read in-progress interview", zap.Error(err))
		return nil
	}
	if data == nil {
		return nil
	}

	var rec inProgressRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		r.logger.Warn("ignoring malformed in-progress interview", zap.Error(err))
		return nil
	}
	if err := rec.validate(); err != nil {
		r.logger.Warn("ignoring invalid in-progress interview", zap.Error(err))
		return nil
	}
	return rec.session()
}

// HasInProgress сообщает, есть ли сессия для продолжения
func (r *Repository) HasInProgress(ctx context.Context) bool {
	return r.LoadInProgress(ctx) != nil
}

func (r *Repository) ClearInProgress(ctx context.Context) error {
	if err := r.kv.Delete(ctx, KeyInProgress); err != nil {
		return fmt.Errorf("ошибка удаления незавершенного интервью: %w", err)
	}
	return nil
}

// LoadCompleted возвращает архив в порядке добавления. Поврежденные записи
// логируются и пропускаются, ошибка чтения возвращается.
func (r *Repository) LoadCompleted(ctx context.Context) ([]interview.CompletedSession, error) {
	archive, err := r.readCompleted(ctx)
	if errors.Is(err, ErrMalformedRecord) {
		r.logger.Warn("ignoring malformed completed interviews", zap.Error(err))
		return archive, nil
	}
	return archive, err
}

// SaveCompleted перезаписывает архив
func (r *Repository) SaveCompleted(ctx context.Context, archive []interview.CompletedSession) error {
	if archive == nil {
		archive = []interview.CompletedSession{}
	}
	data, err := json.Marshal(archive)
	if err != nil {
		return fmt.Errorf("ошибка сериализации архива: %w", err)
	}
	if err := r.kv.Set(ctx, KeyCompleted, data); err != nil {
		return fmt.Errorf("ошибка сохранения архива: %w", err)
	}
	return nil
}

// UpdateCompleted перезаписывает архив результатом fn. Архив, который не
// удалось прочитать целиком, не перезаписывается.
func (r *Repository) UpdateCompleted(ctx context.Context, fn func([]interview.CompletedSession) ([]interview.CompletedSession, error)) error {
	archive, err := r.readCompleted(ctx)
	if err != nil {
		return err
	}
	next, err := fn(archive)
	if err != nil {
		return err
	}
	return r.SaveCompleted(ctx, next)
}

// AppendCompleted добавляет cs в конец архива
func (r *Repository) AppendCompleted(ctx context.Context, cs interview.CompletedSession) error {
	return r.UpdateCompleted(ctx, func(archive []interview.CompletedSession) ([]interview.CompletedSession, error) {
		return append(archive, cs), nil
	})
}

// readCompleted разбирает архив по записям. Если архив или любая запись
// повреждены, возвращаются читаемые записи и ошибка с ErrMalformedRecord.
func (r *Repository) readCompleted(ctx context.Context) ([]interview.CompletedSession, error) {
	archive := []interview.CompletedSession{}

	data, err := r.kv.Get(ctx, KeyCompleted)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения архива: %w", err)
	}
	if data == nil {
		return archive, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return archive, fmt.Errorf("архив: %w: %v", ErrMalformedRecord, err)
	}

	var bad []int
	for i, entry := range raw {
		var cs interview.CompletedSession
		if err := json.Unmarshal(entry, &cs); err != nil {
			bad = append(bad, i)
			continue
		}
		// записи без id идентифицируются временем завершения
		if cs.ID == "" {
			cs.ID = cs.CompletedAt.UTC().Format(time.RFC3339Nano)
		}
		if cs.Messages == nil {
			cs.Messages = []interview.Message{}
		}
		archive = append(archive, cs)
	}
	if len(bad) > 0 {
		return archive, fmt.Errorf("записи архива %v: %w", bad, ErrMalformedRecord)
	}
	return archive, nil
}

// Close закрывает хранилище
func (r *Repository) Close() error {
	return r.kv.Close()
}
