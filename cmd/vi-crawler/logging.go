package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/vi-crawler/parameter"
)

const (
	logDir      = parameter.LogDir
	logFileName = parameter.LogFileName
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging routes the standard logger to logs/vi-crawler.log when debug is set
// and discards it otherwise, the terminal belongs to the renderer
// An oversized previous log is renamed with a timestamp before a fresh one is opened
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		ext := filepath.Ext(logFileName)
		base := logFileName[:len(logFileName)-len(ext)]
		rotated := filepath.Join(logDir, fmt.Sprintf("%s-%s%s", base, time.Now().Format("20060102-150405"), ext))
		_ = os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	return f
}
