// Package logger provides the structured logger used by pkg/bptreeidx
// to report index opens, node splits and root promotions at debug
// level. It never influences control flow; errors are returned to the
// caller, not logged.
package logger

import (
	"os"

	logrus "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// L is the package-wide logger instance. Index.Open accepts an
// Options.Logger override for tests that want to silence or capture
// output; L is the default.
var L = &logrus.Logger{
	Out:   os.Stderr,
	Level: logrus.DebugLevel,
	Formatter: &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	},
}
