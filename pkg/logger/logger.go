package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logFile *lumberjack.Logger

const (
	INFO = iota
	DEBUG
)

const srcField = "src"

type lineFormatter struct{}

// Format renders entries as:
// 2024-03-23 12:16:42 INFO  pipeline.go:27 Exporting table: users
func (f *lineFormatter) Format(entry *log.Entry) ([]byte, error) {
	src, _ := entry.Data[srcField].(string)
	if src == "" {
		src = "-"
	}
	level := strings.ToUpper(entry.Level.String())
	if level == "WARNING" {
		level = "WARN"
	}
	msg := fmt.Sprintf("%s %-5s %s %s\n",
		entry.Time.Format("2006-01-02 15:04:05"), level, src, entry.Message)
	return []byte(msg), nil
}

// InitLogger initializes the logger with a rotated file output and console output
func InitLogger(filename string, level int) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	logFile = &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    100, // MB before rotation
		MaxBackups: 5,
	}
	setup(io.MultiWriter(os.Stdout, logFile), level)
	return nil
}

func setup(w io.Writer, level int) {
	log.SetOutput(w)
	log.SetFormatter(&lineFormatter{})
	if level == DEBUG {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func Close() {
	if logFile != nil {
		logFile.Close()
	}
}

// Init sends everything to stdout. Used when no log file is configured.
func Init() {
	InitConsole(INFO)
}

func InitConsole(level int) {
	setup(os.Stdout, level)
}

// SetOutput redirects the logger, mostly for tests.
func SetOutput(w io.Writer) {
	log.SetFormatter(&lineFormatter{})
	log.SetOutput(w)
}

func logf(level log.Level, format string, v ...interface{}) {
	if !log.IsLevelEnabled(level) {
		return
	}
	src := ""
	if _, file, line, ok := runtime.Caller(2); ok {
		src = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	log.WithField(srcField, src).Logf(level, format, v...)
}

func Info(format string, v ...interface{}) {
	logf(log.InfoLevel, format, v...)
}

func Infof(format string, v ...interface{}) {
	logf(log.InfoLevel, format, v...)
}

func Debugf(format string, v ...interface{}) {
	logf(log.DebugLevel, format, v...)
}

func Error(format string, v ...interface{}) {
	logf(log.ErrorLevel, format, v...)
}

func Errorf(format string, v ...interface{}) {
	logf(log.ErrorLevel, format, v...)
}

func Warn(format string, v ...interface{}) {
	logf(log.WarnLevel, format, v...)
}

func Warnf(format string, v ...interface{}) {
	logf(log.WarnLevel, format, v...)
}
