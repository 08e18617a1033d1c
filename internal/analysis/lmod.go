package analysis

import (
	"bufio"
	"io"
	"regexp"
)

// maxLineSize bounds a single modulefile line.
const maxLineSize = 1 << 20

// lmodPathCall matches prepend_path/append_path of PATH or MODULEPATH with a
// literal string value, e.g. prepend_path("PATH", "/opt/gcc/9.2.0/bin").
const lmodPathCall = `^\s*(prepend_path|append_path)\s*[\(\{]\s*["'](PATH|MODULEPATH)["']\s*,\s*["']([^"']+)["']`

type lmodMatcher struct {
	pathCall *regexp.Regexp
}

func newLmodMatcher() (*lmodMatcher, error) {
	re, err := regexp.Compile(lmodPathCall)
	if err != nil {
		return nil, err
	}
	return &lmodMatcher{pathCall: re}, nil
}

func (m *lmodMatcher) analyze(r io.Reader, c *collector) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		match := m.pathCall.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}

		switch match[2] {
		case "PATH":
			c.addBinPath(match[3])
		case "MODULEPATH":
			c.addModulePath(match[3])
		}
	}

	return scanner.Err()
}
