package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/harrison/mii/internal/models"
	"github.com/mattn/go-isatty"
)

// printer renders search results as text or JSON.
type printer struct {
	out      io.Writer
	json     bool
	command  *color.Color
	module   *color.Color
	path     *color.Color
	distance *color.Color
}

func newPrinter(out io.Writer, jsonOutput bool) *printer {
	p := &printer{
		out:      out,
		json:     jsonOutput,
		command:  color.New(color.FgGreen, color.Bold),
		module:   color.New(color.FgCyan),
		path:     color.New(color.FgHiBlack),
		distance: color.New(color.FgYellow),
	}

	colorOutput := isTerminal(out)
	for _, c := range []*color.Color{p.command, p.module, p.path, p.distance} {
		if colorOutput {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// isTerminal reports whether out is a terminal (for color output).
func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *printer) printMatches(query string, matches []models.Match, withDistance bool) error {
	if p.json {
		return p.encode(matches)
	}

	if len(matches) == 0 {
		fmt.Fprintf(p.out, "No modules provide %q\n", query)
		return nil
	}

	for _, m := range matches {
		line := fmt.Sprintf("%s  %s  %s", p.command.Sprint(m.Command), p.module.Sprint(m.ModuleCode), p.path.Sprint(m.ModulePath))
		if withDistance {
			line += "  " + p.distance.Sprintf("(distance %d)", m.Distance)
		}
		fmt.Fprintln(p.out, line)
	}
	return nil
}

func (p *printer) printInfos(code string, infos []models.ModuleInfo) error {
	if p.json {
		return p.encode(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintf(p.out, "No module named %q\n", code)
		return nil
	}

	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(p.out)
		}
		fmt.Fprintf(p.out, "%s (%s)\n", p.module.Sprint(info.ModuleCode), info.Dialect)
		fmt.Fprintf(p.out, "  path: %s\n", p.path.Sprint(info.ModulePath))
		if len(info.Commands) == 0 {
			fmt.Fprintln(p.out, "  commands: none")
			continue
		}
		fmt.Fprintf(p.out, "  commands (%d):\n", len(info.Commands))
		for _, c := range info.Commands {
			fmt.Fprintf(p.out, "    %s\n", p.command.Sprint(c))
		}
	}
	return nil
}

func (p *printer) encode(v interface{}) error {
	encoder := json.NewEncoder(p.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}
