package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/raytone/pkg/patch"
)

// logTimeFormat shows hundredths of a second, finer than the shortest
// control step (60ms at 250 bpm).
const logTimeFormat = "15:04:05.00"

// newLogger builds the logger shared by every command. Units and tempo
// are logged under the "unit" and "bpm" keys, which get the same colors
// as the inspect table.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
	styles := log.DefaultStyles()
	styles.Values["unit"] = kindStyles[patch.Control].Bold(true)
	styles.Values["bpm"] = StyleNumber
	l.SetStyles(styles)
	return l
}

// progress times a command and logs its outcome with the elapsed time
// under "took".
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info with the elapsed time and keyvals, e.g.
// "played steps=64 bpm=120 took=8.001s".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
