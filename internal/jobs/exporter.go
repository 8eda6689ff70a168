package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ArchiveExporter writes the archive workbook to a path.
type ArchiveExporter interface {
	ExportFile(ctx context.Context, path string) (string, error)
}

// ExporterConfig controls the scheduled archive export.
type ExporterConfig struct {
	Enabled   bool
	Schedule  string // cron spec, e.g. "0 2 * * *"
	ExportDir string
}

// ArchiveExporterJob periodically snapshots the archive to an xlsx file.
type ArchiveExporterJob struct {
	exporter ArchiveExporter
	config   ExporterConfig
	logger   *zap.Logger
	cron     *cron.Cron
	now      func() time.Time
}

func NewArchiveExporterJob(exporter ArchiveExporter, config ExporterConfig, logger *zap.Logger) *ArchiveExporterJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveExporterJob{
		exporter: exporter,
		config:   config,
		logger:   logger,
		cron:     cron.New(),
		now:      time.Now,
	}
}

// Start schedules the export. It does nothing when the job is disabled.
func (j *ArchiveExporterJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("archive export is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunExport(context.Background()); err != nil {
			j.logger.Error("archive export failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("archive exporter started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop waits for a running export to finish.
func (j *ArchiveExporterJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

// RunExport performs one export and returns the file written.
func (j *ArchiveExporterJob) RunExport(ctx context.Context) (string, error) {
	if err := os.MkdirAll(j.config.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := fmt.Sprintf("interviews_%s.xlsx", j.now().Format("20060102_150405"))
	path, err := j.exporter.ExportFile(ctx, filepath.Join(j.config.ExportDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to export archive: %w", err)
	}
	return path, nil
}
