package cli

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the diagnostics logger.
// Default: JSON lines at warn level. Verbose: console lines at debug level.
func NewLogger(w io.Writer, verbose bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encCfg)
	level := zapcore.WarnLevel

	if verbose {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encCfg)
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core)
}
