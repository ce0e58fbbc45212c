package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/n2code/leocore/internal"
)

const sessionSuffix = `.leocore.yaml`

const dot string = "."
const dirSeparator = string(filepath.Separator)
const dotDirSeparator = dot + dirSeparator
const doubleDot = dot + dot
const doubleDotDirSeparator = doubleDot + dirSeparator

// defaultSessionPath places the session file next to the file it was opened on.
func defaultSessionPath(absoluteFile string) string {
	return absoluteFile + sessionSuffix
}

func isChildOf(child string, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	internal.AssertNoError(err, "paths should both be absolute")
	return !(rel == dot || rel == doubleDot || strings.HasPrefix(rel, doubleDotDirSeparator))
}

// pleasantPath turns an absolute path into something easily understandable from the working directory.
// Files below the working directory are shown relative to it with a leading "./" (opt-out possible),
// everything else is reflected unchanged.
func pleasantPath(absolute string, wd string, omitDotSlash bool) string {
	if !isChildOf(absolute, wd) {
		return absolute
	}
	relative, _ := filepath.Rel(wd, absolute) //error impossible because both are rooted
	if omitDotSlash {
		return relative
	}
	return dotDirSeparator + relative
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return wd
}

// mustAbsFilepath calls filepath.Abs and asserts that it is successful
func mustAbsFilepath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}
