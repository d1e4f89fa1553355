// Command collabsheet is the CLI harness for the collaborative
// spreadsheet client engine: it parses connection configuration, opens a
// session, and drives it from stdin — one line-oriented command per
// request, mirroring the teacher's main.go subcommand dispatch narrowed
// to a single program.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"collabsheet/client"
	"collabsheet/config"
	"collabsheet/events"
	"collabsheet/sheet"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if cfg.File == "" {
		fmt.Fprintln(os.Stderr, "collabsheet: -file is required")
		os.Exit(2)
	}

	engine, err := client.Connect(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "collabsheet: connect: %v\n", err)
		os.Exit(1)
	}

	engine.Subscribe(printEvent)

	if cfg.RawKeys {
		runHotkeys(engine)
	} else {
		runLineCommands(engine)
	}

	if err := engine.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "collabsheet: %v\n", err)
		os.Exit(1)
	}
}

func printEvent(ev events.Event) {
	switch ev.Kind {
	case events.Joined:
		fmt.Println("joined")
	case events.Updated:
		fmt.Printf("updated: %v\n", ev.Cells)
	case events.Failed:
		fmt.Printf("failed: %s\n", strings.Join(ev.Lines, " | "))
	case events.UndoEnd:
		fmt.Println("undo stack empty")
	case events.ConnectionClosed:
		fmt.Println("connection closed")
	case events.SocketError:
		fmt.Printf("socket error: %s\n", ev.Reason)
	case events.GenericError:
		fmt.Println("server error")
	}
}

// runLineCommands reads "<cell>=<content>" edits plus undo/save/leave/quit
// commands, one per line, until stdin closes or "quit"/"leave" is given.
func runLineCommands(e *client.Engine) {
	fmt.Println("commands: <cell>=<content>, get <cell>, undo, save, saveLocal <path>, leave, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch {
		case line == "quit":
			return
		case line == "undo":
			reportErr(e.Undo())
		case line == "save":
			reportErr(e.Save())
		case line == "leave":
			reportErr(e.Leave())
			return
		case strings.HasPrefix(line, "saveLocal "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "saveLocal "))
			reportErr(e.SaveLocal(path))
		case strings.HasPrefix(line, "get "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "get "))
			fmt.Println(formatValue(e.GetCellValue(name)))
		default:
			cell, content, ok := strings.Cut(line, "=")
			if !ok {
				fmt.Println("unrecognized command")
				continue
			}
			reportErr(e.Change(strings.TrimSpace(cell), content))
		}
	}
}

// runHotkeys drives the session from single raw keystrokes (no Enter
// required): u=undo, s=save, l=leave+quit, q=quit. Falls back to line
// commands if stdin/stdout aren't real terminals.
func runHotkeys(e *client.Engine) {
	restore, ok := enableRawMode(os.Stdin, os.Stdout)
	if !ok {
		runLineCommands(e)
		return
	}
	defer restore()

	fmt.Print("hotkeys: u=undo s=save l=leave q=quit\r\n")
	for {
		b, err := readByte(os.Stdin)
		if err != nil {
			return
		}
		switch b {
		case 'u':
			reportErr(e.Undo())
		case 's':
			reportErr(e.Save())
		case 'l':
			reportErr(e.Leave())
			return
		case 'q', 3: // 3 == Ctrl+C
			return
		}
	}
}

func formatValue(v sheet.Value) string {
	switch v.Kind() {
	case sheet.ValueNumber:
		n, _ := sheet.AsNumberValue(v)
		return fmt.Sprintf("%v", n)
	case sheet.ValueFormulaError:
		reason, _ := sheet.AsFormulaError(v)
		return "#ERROR: " + reason
	default:
		return v.String()
	}
}

func reportErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}
