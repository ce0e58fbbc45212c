package main

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fancyTerminal reports whether escape sequences may be written to out.
func fancyTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func readText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
