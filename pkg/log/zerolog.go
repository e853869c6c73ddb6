package log

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/flashlight-go/flashlight/pkg/errors"
)

// EnableZerologWarnings routes library warnings (for example
// UndefinedMetricWarning when a group's weights are all zero) through a
// zerolog logger writing to w. Warning types implementing
// zerolog.LogObjectMarshaler are emitted as structured objects.
//
// The indirection through errors.SetZerologWarnFunc avoids a circular
// import between pkg/errors and pkg/log.
func EnableZerologWarnings(w io.Writer) {
	zl := zerolog.New(w).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		ev := zl.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev.EmbedObject(obj).Msg("flashlight warning")
			return
		}
		ev.Err(warning).Msg("flashlight warning")
	})
}
