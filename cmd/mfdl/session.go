package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yourusername/mediafire-dl-go/internal/app"
	"github.com/yourusername/mediafire-dl-go/internal/domain"
	"github.com/yourusername/mediafire-dl-go/internal/infrastructure"
	"github.com/yourusername/mediafire-dl-go/pkg/logger"
)

// session holds what every command needs: config and loggers
type session struct {
	config     *domain.Config
	log        *zap.Logger
	logAdapter *logger.LoggerAdapter
	multiLog   *logger.MultiLogger
}

func newSession() (*session, error) {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		log = logger.NewDefault()
		log.Warn("Falling back to stderr logging",
			zap.String("output_path", config.Logging.OutputPath),
			zap.Error(err))
	}

	rt := &session{config: config, log: log}

	if config.Logging.LogsDir != "" {
		multiLog, err := logger.NewMultiLogger(logger.MultiLoggerConfig{
			Level:   config.Logging.Level,
			LogsDir: config.Logging.LogsDir,
		})
		if err != nil {
			log.Warn("Event logs disabled", zap.Error(err))
		} else {
			rt.multiLog = multiLog
		}
	}
	rt.logAdapter = logger.NewLoggerAdapter(log, rt.multiLog)

	return rt, nil
}

// openHistory opens the run history database
func (rt *session) openHistory() (*infrastructure.SQLiteRunRepository, error) {
	dbPath := rt.config.History.DatabasePath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return infrastructure.NewSQLiteRunRepository(dbPath)
}

func (rt *session) Close() {
	rt.logAdapter.Sync()
	if rt.multiLog != nil {
		rt.multiLog.Close()
	}
}
