package logger

import (
	"fmt"
	"io"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

const (
	// fileLogMaxAge is how long rotated log files are kept on disk.
	fileLogMaxAge = 7 * 24 * time.Hour
	// fileLogRotationTime is how often a new log file is started.
	fileLogRotationTime = 24 * time.Hour
)

// NewRotatingWriter opens a rotating log file for the provided base path.
// A date suffix is appended to each produced file; old files expire after a week.
func NewRotatingWriter(path string) (io.Writer, error) {
	w, err := rotatelogs.New(
		path+".%Y-%m-%d",
		rotatelogs.WithMaxAge(fileLogMaxAge),
		rotatelogs.WithRotationTime(fileLogRotationTime),
	)
	if err != nil {
		return nil, fmt.Errorf("open rotating log %s: %w", path, err)
	}

	return w, nil
}
