package logging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"salita/internal/config"
)

const logFileName = "salita.log"

// Options describes logger construction parameters.
type Options struct {
	Level            string
	Format           string
	OutputPaths      []string
	ErrorOutputPaths []string
	// Color forces ANSI level colours on or off. Nil means colour only when
	// the sole output is a terminal.
	Color *bool
}

// New constructs a logger for a long-lived process. Log files opened for it
// stay open until the process exits.
func New(opts Options) (*slog.Logger, error) {
	logger, _, err := Open(opts)
	return logger, err
}

// Open constructs a logger and returns a closer for the log files it opened.
// Standard streams are never closed.
func Open(opts Options) (*slog.Logger, io.Closer, error) {
	level := parseLevel(opts.Level)
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	out, err := openOutputs(
		withDefault(opts.OutputPaths, "stdout"),
		withDefault(opts.ErrorOutputPaths, "stderr"),
	)
	if err != nil {
		return nil, nil, err
	}

	var handler slog.Handler
	if format == "json" {
		handler = newJSONHandler(out.writer(), level)
	} else {
		color := out.terminal()
		if opts.Color != nil {
			color = *opts.Color
		}
		handler = &consoleHandler{mu: &sync.Mutex{}, w: out.writer(), level: level, color: color}
	}
	return slog.New(handler), out, nil
}

// NewFromConfig creates the server logger: stdout plus salita.log inside the
// configured log directory.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console"})
	}
	outputs := []string{"stdout"}
	if cfg.Paths.LogDir != "" {
		outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, logFileName))
	}
	return New(Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      outputs,
		ErrorOutputPaths: outputs[len(outputs)-1:],
	})
}

// OpenFileFromConfig creates a logger that writes only to salita.log, for
// short-lived commands whose stdout belongs to the user. Close the returned
// closer when the command finishes.
func OpenFileFromConfig(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	logPath := filepath.Join(cfg.Paths.LogDir, logFileName)
	return Open(Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func withDefault(paths []string, fallback string) []string {
	if len(paths) == 0 {
		return []string{fallback}
	}
	return paths
}

// outputs is the deduplicated set of destinations a logger writes to.
type outputs struct {
	writers []io.Writer
	files   []*os.File
}

func openOutputs(groups ...[]string) (*outputs, error) {
	out := &outputs{}
	seen := make(map[string]bool)
	for _, paths := range groups {
		for _, path := range paths {
			path = strings.TrimSpace(path)
			if path == "" || seen[path] {
				continue
			}
			seen[path] = true
			switch path {
			case "stdout":
				out.writers = append(out.writers, os.Stdout)
			case "stderr":
				out.writers = append(out.writers, os.Stderr)
			default:
				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					_ = out.Close()
					return nil, fmt.Errorf("ensure log directory: %w", err)
				}
				file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
				if err != nil {
					_ = out.Close()
					return nil, fmt.Errorf("open log file %s: %w", path, err)
				}
				out.writers = append(out.writers, file)
				out.files = append(out.files, file)
			}
		}
	}
	if len(out.writers) == 0 {
		out.writers = []io.Writer{os.Stdout}
	}
	return out, nil
}

func (o *outputs) writer() io.Writer {
	if len(o.writers) == 1 {
		return o.writers[0]
	}
	return io.MultiWriter(o.writers...)
}

// terminal reports whether the only destination is an interactive terminal.
func (o *outputs) terminal() bool {
	if len(o.writers) != 1 {
		return false
	}
	file, ok := o.writers[0].(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Close closes the log files; standard streams are left open.
func (o *outputs) Close() error {
	var errs []error
	for _, file := range o.files {
		errs = append(errs, file.Close())
	}
	o.files = nil
	return errors.Join(errs...)
}

func newJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	})
}

// consoleHandler writes one line per record:
//
//	2026-03-02T09:00:00Z INFO api: game recorded user_id=... xp=70
//
// The component attribute becomes the line prefix; other attributes follow as
// key=value pairs, with group names joined by dots.
type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Level
	color  bool
	prefix string
	attrs  []field
}

type field struct {
	key   string
	value slog.Value
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := append([]field(nil), h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, h.prefix, attr)
		return true
	})

	var component string
	rest := fields[:0]
	for _, f := range fields {
		if f.key == FieldComponent {
			if component == "" {
				component = f.value.String()
			}
			continue
		}
		rest = append(rest, f)
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var buf bytes.Buffer
	buf.WriteString(ts.UTC().Format(time.RFC3339))
	buf.WriteByte(' ')
	label := levelLabel(record.Level)
	if h.color {
		label = levelColor(record.Level) + label + colorReset
	}
	buf.WriteString(label)
	buf.WriteByte(' ')
	if component != "" {
		buf.WriteString(component)
		buf.WriteString(": ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		buf.WriteString(msg)
	} else {
		buf.WriteString("(no message)")
	}
	if record.Level <= slog.LevelDebug {
		src := record.Source()
		if src != nil && src.File != "" {
			fmt.Fprintf(&buf, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range rest {
		buf.WriteByte(' ')
		buf.WriteString(f.key)
		buf.WriteByte('=')
		buf.WriteString(quoteIfNeeded(valueText(f.value)))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]field(nil), h.attrs...)
	for _, attr := range attrs {
		clone.attrs = appendField(clone.attrs, h.prefix, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func appendField(dst []field, prefix string, attr slog.Attr) []field {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			dst = appendField(dst, prefix, member)
		}
		return dst
	}
	return append(dst, field{key: prefix + attr.Key, value: attr.Value})
}

func valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

const colorReset = "\x1b[0m"

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "\x1b[31m"
	case level >= slog.LevelWarn:
		return "\x1b[33m"
	case level >= slog.LevelInfo:
		return "\x1b[32m"
	default:
		return "\x1b[90m"
	}
}
