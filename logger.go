package woodpecker

import (
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type formatter struct {
	formatter log.Formatter
	fields    log.Fields
}

// NewLogger returns a JSON logger writing to w at the named level. fields are
// attached to every entry.
func NewLogger(w io.Writer, level string, fields log.Fields) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if w == nil {
		w = os.Stderr
	}
	l := log.Logger{
		Out:       w,
		Formatter: &formatter{formatter: &log.JSONFormatter{}, fields: fields},
		Hooks:     log.LevelHooks{},
		Level:     lvl,
		ExitFunc:  os.Exit,
	}

	if l.Level >= log.DebugLevel {
		l.ReportCaller = true
	}

	return &l, nil
}

func (f *formatter) Format(e *log.Entry) ([]byte, error) {
	for k, v := range f.fields {
		if _, ok := e.Data[k]; !ok {
			e.Data[k] = v
		}
	}
	return f.formatter.Format(e)
}
