package dashboard

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"interview-assistant/internal/interview"
)

// Archive reads the completed interviews blob and rewrites it through
// UpdateCompleted, which refuses to overwrite an archive it could not read.
type Archive interface {
	LoadCompleted(ctx context.Context) ([]interview.CompletedSession, error)
	UpdateCompleted(ctx context.Context, fn func([]interview.CompletedSession) ([]interview.CompletedSession, error)) error
}

// Service answers interviewer queries over the archive.
type Service struct {
	archive Archive
	logger  *zap.Logger
}

func NewService(archive Archive, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{archive: archive, logger: logger}
}

// List filters the archive by q and orders it by key.
func (s *Service) List(ctx context.Context, q string, key SortKey) ([]interview.CompletedSession, error) {
	archive, err := s.archive.LoadCompleted(ctx)
	if err != nil {
		return nil, err
	}
	list := Filter(archive, q)
	Sort(list, key)
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (interview.CompletedSession, error) {
	archive, err := s.archive.LoadCompleted(ctx)
	if err != nil {
		return interview.CompletedSession{}, err
	}
	cs, ok := Find(archive, id)
	if !ok {
		return interview.CompletedSession{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return cs, nil
}

// Delete removes one interview and persists the archive immediately.
func (s *Service) Delete(ctx context.Context, id string) error {
	remaining := 0
	err := s.archive.UpdateCompleted(ctx, func(archive []interview.CompletedSession) ([]interview.CompletedSession, error) {
		rest, ok := Delete(archive, id)
		if !ok {
			return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		remaining = len(rest)
		return rest, nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("interview deleted", zap.String("id", id), zap.Int("remaining", remaining))
	return nil
}

// Export writes the whole archive, highest score first, as a workbook.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	list, err := s.List(ctx, "", SortScore)
	if err != nil {
		return err
	}
	return WriteExcel(w, list)
}

// ExportFile saves the archive workbook at path and returns the path written.
func (s *Service) ExportFile(ctx context.Context, path string) (string, error) {
	list, err := s.List(ctx, "", SortScore)
	if err != nil {
		return "", err
	}
	written, err := ExportToExcel(list, path)
	if err != nil {
		return "", err
	}
	s.logger.Info("archive exported", zap.String("path", written), zap.Int("interviews", len(list)))
	return written, nil
}
