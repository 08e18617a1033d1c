package analysis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/harrison/mii/internal/logger"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// tclEnvRef matches Tcl's $env(NAME) and $::env(NAME) array lookups.
var tclEnvRef = regexp.MustCompile(`\$(?:::)?env\(([A-Za-z_][A-Za-z0-9_]*)\)`)

// tclState holds the variables a single Tcl modulefile has set so far.
type tclState struct {
	vars      map[string]string
	lookupEnv func(string) (string, bool)
	logger    logger.Logger
	cfg       *expand.Config
}

func newTclState(lookupEnv func(string) (string, bool), l logger.Logger) *tclState {
	s := &tclState{
		vars:      make(map[string]string),
		lookupEnv: lookupEnv,
		logger:    l,
	}
	// CmdSubst stays nil so $(...) and backticks fail to expand.
	s.cfg = &expand.Config{Env: expand.FuncEnviron(s.lookup)}
	return s
}

func (s *tclState) lookup(name string) string {
	if v, ok := s.vars[name]; ok {
		return v
	}
	if v, ok := s.lookupEnv(name); ok {
		return v
	}
	return ""
}

func (s *tclState) analyze(r io.Reader, c *collector) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "set", "setenv":
			if len(fields) < 3 {
				continue
			}
			value, ok := s.expand(fields[2])
			if !ok {
				continue
			}
			s.vars[fields[1]] = value

		case "prepend-path", "append-path":
			args := skipOptions(fields[1:])
			if len(args) < 2 {
				continue
			}
			value, ok := s.expand(args[1])
			if !ok {
				continue
			}
			switch args[0] {
			case "PATH":
				c.addBinPath(value)
			case "MODULEPATH":
				c.addModulePath(value)
			}

		case "module":
			if len(fields) < 3 || fields[1] != "use" {
				continue
			}
			for _, arg := range skipOptions(fields[2:]) {
				if value, ok := s.expand(arg); ok {
					c.addModulePath(value)
				}
			}
		}
	}

	return scanner.Err()
}

// skipOptions drops leading "-x" / "--flag" arguments. "-d" and "--delim" consume
// their value as well.
func skipOptions(args []string) []string {
	for len(args) > 0 && strings.HasPrefix(args[0], "-") {
		if (args[0] == "-d" || args[0] == "--delim") && len(args) > 1 {
			args = args[1:]
		}
		args = args[1:]
	}
	return args
}

// expand resolves variable references in a Tcl word. Words that cannot be expanded
// (syntax errors, command substitution) are reported and skipped.
func (s *tclState) expand(word string) (string, bool) {
	if strings.HasPrefix(word, "{") && strings.HasSuffix(word, "}") && len(word) >= 2 {
		// Braces quote literally in Tcl.
		return word[1 : len(word)-1], true
	}

	expr := tclEnvRef.ReplaceAllString(word, "$${$1}")

	value, err := s.expandShellWords(expr)
	if err != nil {
		s.logger.LogDebug(fmt.Sprintf("Expansion failed on string %q: %v", word, err))
		return "", false
	}
	return value, true
}

func (s *tclState) expandShellWords(expr string) (string, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(expr), "")
	if err != nil {
		return "", err
	}
	if len(file.Stmts) != 1 {
		return "", errors.New("expected a single word")
	}

	call, ok := file.Stmts[0].Cmd.(*syntax.CallExpr)
	if !ok || len(call.Assigns) > 0 {
		return "", errors.New("expected a single word")
	}

	var sb strings.Builder
	for _, w := range call.Args {
		lit, err := expand.Literal(s.cfg, w)
		if err != nil {
			return "", err
		}
		sb.WriteString(lit)
	}
	return sb.String(), nil
}
