package models

import "fmt"

// Dialect identifies the language a modulefile is written in.
type Dialect int

const (
	// DialectLmod is a Lua modulefile understood by Lmod.
	DialectLmod Dialect = iota
	// DialectTcl is a classic Tcl modulefile starting with the #%Module magic.
	DialectTcl
)

// String returns the lowercase dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectLmod:
		return "lmod"
	case DialectTcl:
		return "tcl"
	default:
		return "unknown"
	}
}

// ParseDialect converts a dialect name produced by String back into a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "lmod":
		return DialectLmod, nil
	case "tcl":
		return DialectTcl, nil
	default:
		return 0, fmt.Errorf("unknown module dialect %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so dialects render by name in JSON.
func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dialect) UnmarshalText(text []byte) error {
	parsed, err := ParseDialect(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
