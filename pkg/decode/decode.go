/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: decode.go
Description: Input decoding front door. Maps files and readers onto the generic value
tree the analyzer consumes. Formats are chosen explicitly or sniffed from the file
extension and leading bytes; text inputs are transcoded through BOM detection so
UTF-8, UTF-16LE, and UTF-16BE sources all arrive as plain UTF-8.
*/

package decode

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/kleascm/shapely/pkg/values"
)

// Format identifies an input format.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatCSV    Format = "csv"
	FormatHTML   Format = "html"
	FormatSQLite Format = "sqlite"
)

var sqliteMagic = []byte("SQLite format 3\x00")

// File decodes one file into a value tree, sniffing the format when asked
// for FormatAuto.
func File(path string, format Format) (values.Value, Format, error) {
	if format == FormatAuto || format == "" {
		format = sniffExtension(path)
	}
	if format == FormatSQLite {
		v, err := decodeSQLite(path)
		return v, format, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, format, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	v, format, err := Reader(f, format)
	if err != nil {
		return nil, format, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return v, format, nil
}

// Reader decodes one stream. FormatAuto sniffs the leading bytes; the
// SQLite format cannot be decoded from a plain reader and must come
// through File.
func Reader(r io.Reader, format Format) (values.Value, Format, error) {
	br := bufio.NewReader(transcode(r))
	if format == FormatAuto || format == "" {
		sniffed, err := sniffContent(br)
		if err != nil {
			return nil, format, err
		}
		format = sniffed
	}
	var (
		v   values.Value
		err error
	)
	switch format {
	case FormatJSON:
		v, err = decodeJSON(br)
	case FormatYAML:
		v, err = decodeYAML(br)
	case FormatCSV:
		v, err = decodeCSV(br)
	case FormatHTML:
		v, err = decodeHTML(br)
	case FormatSQLite:
		err = fmt.Errorf("sqlite sources must be decoded from a file path")
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	return v, format, err
}

// transcode strips a UTF-8 BOM and converts UTF-16 (either endianness,
// detected from its BOM) to UTF-8.
func transcode(r io.Reader) io.Reader {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return transform.NewReader(r, decoder)
}

func sniffExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".ndjson", ".jsonl":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	case ".html", ".htm":
		return FormatHTML
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	}
	return FormatAuto
}

// sniffContent guesses the format from the first bytes of the stream
// without consuming them.
func sniffContent(br *bufio.Reader) (Format, error) {
	head, err := br.Peek(512)
	if err != nil && err != io.EOF {
		return FormatAuto, err
	}
	if len(head) == 0 {
		return FormatAuto, fmt.Errorf("empty source")
	}
	if bytes.HasPrefix(head, sqliteMagic) {
		return FormatSQLite, nil
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '{', '[':
			return FormatJSON, nil
		case '<':
			return FormatHTML, nil
		}
	}
	firstLine, _, _ := bytes.Cut(head, []byte("\n"))
	if bytes.Count(firstLine, []byte(",")) > 0 && !bytes.Contains(firstLine, []byte(": ")) {
		return FormatCSV, nil
	}
	return FormatYAML, nil
}
