package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NewZapLog builds a production zap logger at the given level.  Output goes
// to stderr so it never interleaves with the shell's answers on stdout.
func NewZapLog(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zapcfg := zap.NewProductionConfig()
	zapcfg.Level = lvl
	zapcfg.OutputPaths = []string{"stderr"}
	zapcfg.ErrorOutputPaths = []string{"stderr"}
	zl, err := zapcfg.Build()
	if err != nil {
		return nil, err
	}
	return zl, nil
}

// RequestLog is an echo middleware logging every operator API request and
// its response.
func RequestLog(zaplog *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			zaplog.Info("got incoming HTTP request",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("remote", c.RealIP()),
			)

			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo write the error response so the status is known
				c.Error(err)
			}

			res := c.Response()
			zaplog.Info("send HTTP response",
				zap.Int("code", res.Status),
				zap.Int64("length", res.Size),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}
	}
}
