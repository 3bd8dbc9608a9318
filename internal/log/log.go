package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout, logrus.InfoLevel)
)

func newLogger(w io.Writer, lvl logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "action",
		},
	})
	return l
}

// Setup replaces the process logger. Unknown levels fall back to info.
func Setup(level string, w io.Writer) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if w == nil {
		w = os.Stdout
	}
	mu.Lock()
	logger = newLogger(w, lvl)
	mu.Unlock()
}

// SetOutput redirects log lines and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	old := logger.Out
	logger.SetOutput(w)
	return old
}

// Logger exposes the underlying logrus logger for libraries that want one.
func Logger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func write(lvl logrus.Level, kind string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	f := logrus.Fields{"kind": kind}
	if len(fields) > 0 {
		f["fields"] = fields
	}
	if c != nil {
		f["ip"] = c.IP()
		f["method"] = c.Method()
		f["path"] = c.Path()
		if st := c.Response().StatusCode(); st != 0 {
			f["status"] = st
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			f["req_id"] = rid
		}
		if uid, ok := c.Locals("user_id").(string); ok && uid != "" {
			f["user_id"] = uid
		}
	}
	if err != nil {
		f["err"] = err.Error()
	}
	Logger().WithFields(f).Log(lvl, action)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.InfoLevel, "info", c, action, nil, fields)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.InfoLevel, "audit", c, action, nil, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.WarnLevel, "security", c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(logrus.ErrorLevel, "error", c, action, err, fields)
}

func Debug(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.DebugLevel, "debug", c, action, nil, fields)
}
