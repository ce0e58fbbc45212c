package output

import (
	"fmt"
	"io"
	"os"
)

type Class int

const (
	Required Class = iota //explicitly requested information, printed even in quiet mode
	Error
	Normal
	Verbose
)

// Classes returns the classes enabled for the given verbosity switches.
func Classes(verbose bool, quiet bool) []Class {
	switch {
	case quiet:
		return []Class{Required, Error}
	case verbose:
		return []Class{Required, Error, Normal, Verbose}
	default:
		return []Class{Required, Error, Normal}
	}
}

type Printer struct {
	classes    map[Class]bool
	terminal   io.Writer
	diagnosis  io.Writer
	useEscapes bool
}

func NewPrinter(include []Class, allowEscapes bool) Printer {
	return NewPrinterTo(include, allowEscapes, os.Stdout, os.Stderr)
}

// NewPrinterTo routes errors to diagnosis and every other class to terminal.
func NewPrinterTo(include []Class, allowEscapes bool, terminal io.Writer, diagnosis io.Writer) (p Printer) {
	p = Printer{
		classes:    map[Class]bool{},
		terminal:   terminal,
		diagnosis:  diagnosis,
		useEscapes: allowEscapes,
	}
	for _, class := range include {
		p.classes[class] = true
	}
	return
}

func (p Printer) Enabled(class Class) bool {
	return p.classes[class]
}

func (p Printer) Out(class Class, format string, values ...interface{}) {
	if !p.classes[class] {
		return
	}
	target := p.terminal
	if class == Error {
		target = p.diagnosis
		if p.useEscapes {
			fmt.Fprint(target, TerminalFormatAsError(fmt.Sprintf(format, values...)))
			return
		}
	}
	fmt.Fprintf(target, format, values...)
}

func (p Printer) Dim(text string) string {
	if p.useEscapes {
		return TerminalFormatAsDim(text)
	}
	return text
}

func (p Printer) Changed(text string) string {
	if p.useEscapes {
		return TerminalFormatAsChanged(text)
	}
	return text
}
