// Package xmlstore implements spec.md's C7 component: writing an
// in-memory spreadsheet to a local XML file and reading one back. The
// schema is this client's own — a three-element `<spreadsheet><cell>`
// document, not a general-purpose workbook format — so it's built on
// encoding/xml's struct-tag marshaling (the idiom the teacher reaches for
// whenever it needs structured text output, e.g. encoding/json throughout
// debugger/dap) rather than any full OOXML reader/writer, which would be
// the wrong tool for four lines of custom XML.
package xmlstore

import (
	"encoding/xml"
	"fmt"
	"os"
)

// document is the on-disk shape from spec.md §4.6.
type document struct {
	XMLName xml.Name  `xml:"spreadsheet"`
	Version string    `xml:"version,attr"`
	Cells   []cellXML `xml:"cell"`
}

type cellXML struct {
	Name     string `xml:"name"`
	Contents string `xml:"contents"`
}

// ReadWriteError wraps any I/O or parse failure from Save/Load/
// GetSavedVersion — spec.md §7's ReadWriteError, raised synchronously
// from saveLocal / getSavedVersion.
type ReadWriteError struct {
	Path string
	Err  error
}

func (e *ReadWriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ReadWriteError) Unwrap() error { return e.Err }

// Cell is the minimal view xmlstore needs of a spreadsheet cell: its
// normalized name and the authored-contents string that would reproduce
// it through setContents (spec.md §4.6: the string, number.toString(), or
// "="+formula.toString()).
type Cell struct {
	Name     string
	Contents string
}

// Save writes version and cells to path as the XML document described in
// spec.md §4.6, one <cell> element per non-empty cell.
func Save(path, version string, cells []Cell) error {
	doc := document{Version: version}
	for _, c := range cells {
		doc.Cells = append(doc.Cells, cellXML{Name: c.Name, Contents: c.Contents})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &ReadWriteError{Path: path, Err: err}
	}
	out = append(out, '\n')

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return &ReadWriteError{Path: path, Err: err}
	}
	return nil
}

// Load reads path and returns its version and cells, for a caller to
// re-apply each cell's Contents string through
// CellStore.SetContents — the round-trip path spec.md §8 tests.
func Load(path string) (version string, cells []Cell, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, &ReadWriteError{Path: path, Err: err}
	}
	version, cells, err = Parse(data)
	if err != nil {
		return "", nil, &ReadWriteError{Path: path, Err: err}
	}
	return version, cells, nil
}

// Parse decodes an in-memory XML document in spec.md §4.6's shape — used
// for the JOIN OK reply payload, which carries a full sheet as XML bytes
// over the wire rather than as a file on disk.
func Parse(data []byte) (version string, cells []Cell, err error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", nil, err
	}
	cells = make([]Cell, 0, len(doc.Cells))
	for _, c := range doc.Cells {
		cells = append(cells, Cell{Name: c.Name, Contents: c.Contents})
	}
	return doc.Version, cells, nil
}

// GetSavedVersion returns path's version attribute without parsing its
// cells, per spec.md §4.6: only the root element's version attribute is
// decoded, and the <cell> elements are skipped.
func GetSavedVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadWriteError{Path: path, Err: err}
	}
	var head struct {
		XMLName xml.Name `xml:"spreadsheet"`
		Version string   `xml:"version,attr"`
	}
	if err := xml.Unmarshal(data, &head); err != nil {
		return "", &ReadWriteError{Path: path, Err: err}
	}
	return head.Version, nil
}
