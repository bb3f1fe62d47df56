package console

import (
	"fmt"
	"io"
)

type color string

const (
	colorDefault color = "\033[0m"
	colorRed     color = "\033[0;31m"
	colorGreen   color = "\033[0;32m"
	colorYellow  color = "\033[0;33m"
	colorBlue    color = "\033[0;34m"
	colorMagenta color = "\033[0;35m"
	colorCyan    color = "\033[0;36m"
)

// painter writes text in a terminal color, or plain when colors are off.
type painter struct {
	w       io.Writer
	enabled bool
}

func (p painter) set(c color) {
	if p.enabled {
		io.WriteString(p.w, string(c))
	}
}

func (p painter) printf(c color, format string, args ...any) {
	p.set(c)
	fmt.Fprintf(p.w, format, args...)
	p.set(colorDefault)
}

func (p painter) println(c color, args ...any) {
	p.set(c)
	fmt.Fprintln(p.w, args...)
	p.set(colorDefault)
}

// paint wraps s in color codes for inline use.
func (p painter) paint(c color, s string) string {
	if !p.enabled {
		return s
	}
	return string(c) + s + string(colorDefault)
}
