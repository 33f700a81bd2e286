package logging

import (
	"io"
	"os"

	"github.com/GriffinCanCode/featurecount/internal/shared/id"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with run tagging.
type Logger struct {
	*zap.Logger
}

// Option customizes New.
type Option func(*options)

type options struct {
	out io.Writer
}

// WithOutput sends log entries to w instead of stderr.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// New builds a logger at the named level ("" means info). Development mode
// writes console lines, coloured when the output is a terminal; otherwise
// entries are JSON. Logs never go to stdout, which may carry the table.
func New(level string, development bool, opts ...Option) (*Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	}

	o := options{out: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	core := zapcore.NewCore(newEncoder(development, isTerminal(o.out)), zapcore.Lock(zapcore.AddSync(o.out)), lvl)
	zapOpts := []zap.Option{zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if development {
		zapOpts = append(zapOpts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	return &Logger{Logger: zap.New(core, zapOpts...)}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// WithRun returns a child logger tagging every entry with the run ID.
func (l *Logger) WithRun(runID id.RunID) *Logger {
	return &Logger{Logger: l.With(zap.String("run_id", runID.String()))}
}

func newEncoder(development, color bool) zapcore.Encoder {
	if development {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		if color {
			cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		return zapcore.NewConsoleEncoder(cfg)
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
