package helpers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// LoggerName is written in the name column of every log line
	LoggerName = "TradingBot"
	// NotifyField marks entries that should also reach notification hooks
	NotifyField = "notify"
	nameField   = "logger"
)

// SessionLogger writes one log file per session. It is created at start-up
// and must be closed on exit.
type SessionLogger struct {
	logger *log.Logger
	entry  *log.Entry
	file   *os.File
	path   string
}

// NewSessionLogger opens logs/trading_bot_<timestamp>.log under dir. When
// console is not nil, INFO and above are echoed there too.
func NewSessionLogger(dir string, console io.Writer) (*SessionLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating log directory: %w", err)
	}
	path := filepath.Join(dir, "trading_bot_"+time.Now().Format("20060102_150405")+".log")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	sessionLogger := NewLogger(f, console)
	sessionLogger.file = f
	sessionLogger.path = path
	sessionLogger.Infoln("Logging initialized. Log file: " + path)
	return sessionLogger, nil
}

// NewLogger logs to out without owning it
func NewLogger(out io.Writer, console io.Writer) *SessionLogger {
	plainFormatter := new(PlainFormatter)
	plainFormatter.TimestampFormat = "2006-01-02 15:04:05"
	plainFormatter.LevelDesc = []string{"CRITICAL", "CRITICAL", "ERROR", "WARNING", "INFO", "DEBUG", "DEBUG"}

	logger := log.New()
	logger.SetOutput(out)
	logger.SetFormatter(plainFormatter)
	logger.SetLevel(log.DebugLevel)
	if console != nil {
		logger.AddHook(&ConsoleHook{Writer: console})
	}

	return &SessionLogger{
		logger: logger,
		entry:  logger.WithField(nameField, LoggerName),
	}
}

// AddHook attaches a logrus hook, such as the Telegram notifier
func (l *SessionLogger) AddHook(hook log.Hook) {
	l.logger.AddHook(hook)
}

// Path is the session log file, empty when not file backed
func (l *SessionLogger) Path() string {
	return l.path
}

func (l *SessionLogger) Close() error {
	if l.file == nil {
		return nil
	}
	l.Infoln("Session closed")
	return l.file.Close()
}

func (l *SessionLogger) Errorln(args ...interface{}) {
	l.entry.Errorln(args...)
}

func (l *SessionLogger) Warnln(args ...interface{}) {
	l.entry.Warnln(args...)
}

func (l *SessionLogger) Infoln(args ...interface{}) {
	l.entry.Infoln(args...)
}

// Notifyln logs at INFO and forwards the message to notification hooks
func (l *SessionLogger) Notifyln(args ...interface{}) {
	l.entry.WithField(NotifyField, true).Infoln(args...)
}

func (l *SessionLogger) Debugln(args ...interface{}) {
	l.entry.Debugln(args...)
}

// PlainFormatter renders "<time> | <LEVEL> | <name> | <message>"
type PlainFormatter struct {
	TimestampFormat string
	LevelDesc       []string
}

func (f PlainFormatter) Format(entry *log.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(f.TimestampFormat)
	name, _ := entry.Data[nameField].(string)
	if name == "" {
		name = LoggerName
	}
	return []byte(fmt.Sprintf("%s | %-8s | %s | %s\n", timestamp, f.LevelDesc[entry.Level], name,
		strings.TrimRight(entry.Message, "\n"))), nil
}

// ConsoleHook echoes important entries as "LEVEL: message"
type ConsoleHook struct {
	Writer io.Writer
}

func (h *ConsoleHook) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel, log.InfoLevel}
}

func (h *ConsoleHook) Fire(entry *log.Entry) error {
	_, err := fmt.Fprintf(h.Writer, "%s: %s\n", strings.ToUpper(entry.Level.String()), strings.TrimRight(entry.Message, "\n"))
	return err
}
