package logging

import "github.com/pressly/goose/v3"

type PadLoggerGoose struct {
}

var _ goose.Logger = (*PadLoggerGoose)(nil)

func (p PadLoggerGoose) Fatalf(format string, v ...interface{}) {
	Fatalf(format, v...)
}

func (p PadLoggerGoose) Printf(format string, v ...interface{}) {
	Infof(format, v...)
}
