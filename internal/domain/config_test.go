package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.NotNil(t, config)
	assert.Equal(t, ".", config.Download.OutputDir)
	assert.Equal(t, 10, config.Download.MaxConcurrent)
	assert.Equal(t, DefaultUserAgent, config.Download.UserAgent)
	assert.Equal(t, 30*time.Second, config.Download.ConnectTimeout)
	assert.True(t, config.Download.ShowProgress)
	assert.Equal(t, "https://www.mediafire.com/api/1.5", config.MediaFire.APIBaseURL)
	assert.Equal(t, 4, config.MediaFire.FolderConcurrency)
	assert.True(t, config.History.Enabled)
	assert.Equal(t, 8080, config.Server.Port)
	assert.False(t, config.Notification.Enabled)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, "stderr", config.Logging.OutputPath)
}
