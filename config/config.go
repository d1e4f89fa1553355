// Package config implements spec.md §6's Configuration surface: the
// handful of values a caller supplies to construct a client.Engine
// (server host/port, spreadsheet file, password, create-vs-join, and the
// CellName isValid/normalize hooks). No example repo in this pack reaches
// for cobra/viper for a program this small — the teacher's own main.go
// parses os.Args by hand — so this stays on the standard flag package,
// one step more structured than that.
package config

import (
	"flag"
	"strings"
)

// DefaultPort is spec.md §6's default TCP port.
const DefaultPort = 1984

// ProtocolVersion is the tag spec.md §6 says is transmitted in replies'
// headers for server compatibility ("ps6").
const ProtocolVersion = "ps6"

// Config holds everything needed to dial and authenticate against a
// spreadsheet server, plus the CellName validity/normalization hooks the
// engine threads through to formula and sheet.
type Config struct {
	Host      string
	Port      int
	File      string
	Password  string
	CreateNew bool
	RawKeys   bool

	IsValid   func(name string) bool
	Normalize func(name string) string
}

// Parse builds a Config from command-line arguments, applying
// spec.md-compatible defaults: port 1984, uppercase normalization, and an
// IsValid that accepts every shape-valid name (the server is the
// authority on which names are legal for a given sheet; this client-side
// hook exists for callers that want a stricter local check).
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("collabsheet", flag.ContinueOnError)
	host := fs.String("host", "localhost", "spreadsheet server host")
	port := fs.Int("port", DefaultPort, "spreadsheet server TCP port")
	file := fs.String("file", "", "spreadsheet file name on the server")
	password := fs.String("password", "", "spreadsheet password")
	createNew := fs.Bool("create", false, "create a new spreadsheet instead of joining")
	rawKeys := fs.Bool("keys", false, "use single-keystroke hotkeys (u=undo, s=save, l=leave) instead of line commands")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &Config{
		Host:      *host,
		Port:      *port,
		File:      *file,
		Password:  *password,
		CreateNew: *createNew,
		RawKeys:   *rawKeys,
		IsValid:   func(string) bool { return true },
		Normalize: strings.ToUpper,
	}, nil
}
