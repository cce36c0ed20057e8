package fileio

import (
	"os"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/leocov-dev/modgrab/core"
)

// IgnoreFileName holds patterns for files the hash index should never treat as
// installed artifacts. Patterns follow gitignore syntax.
const IgnoreFileName = ".mgignore"

var ignoreDefaults = []string{
	// Defaults (can be overridden with a negating pattern preceded with !)

	// Exclude Git metadata
	".git/**",
	".gitattributes",
	".gitignore",

	// Exclude macOS metadata
	".DS_Store",

	// Exclude our own metadata files
	"*" + core.MetaExtension,
	"profile.toml",
	IgnoreFileName,

	// Exclude config/cache noise loaders leave next to installed content
	"*.txt",
	"*.bak",
	"*.disabled",
}

func readIgnoreFile(path string) (*gitignore.GitIgnore, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gitignore.CompileIgnoreLines(ignoreDefaults...), false
	}

	s := strings.Split(string(data), "\n")
	var lines []string
	lines = append(lines, ignoreDefaults...)
	lines = append(lines, s...)
	return gitignore.CompileIgnoreLines(lines...), true
}
