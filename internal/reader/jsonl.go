// Package reader turns a JSONL product corpus into the ordered record
// sequence the pipeline consumes. One JSON object per line; a line
// that fails to parse becomes a malformed-record marker carrying its
// line number and error instead of terminating the sequence.
package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/araffali/product-indexer/model"
)

// maxLineSize bounds a single input line. Product descriptions are
// long but not megabytes long; 4 MiB leaves plenty of headroom.
const maxLineSize = 4 * 1024 * 1024

// errLineTooLong marks a physical line exceeding maxLineSize.
var errLineTooLong = errors.New("line too long")

// Record is one line of the corpus: either a parsed document or a
// malformed-record marker. Exactly one of Doc and Err is set.
type Record struct {
	Line int
	Doc  *model.Document
	Err  error
}

// Malformed reports whether the record is a parse-failure marker.
func (r Record) Malformed() bool {
	return r.Err != nil
}

// ReadAll consumes the reader to the end and returns the record
// sequence in input order. Blank lines are skipped. Only an I/O
// failure on the underlying reader is returned as an error; parse
// failures and oversized lines become malformed records in the
// sequence.
func ReadAll(r io.Reader) ([]Record, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	records := make([]Record, 0)
	line := 0
	for {
		text, err := readLine(br)
		if err == io.EOF {
			return records, nil
		}
		line++
		if errors.Is(err, errLineTooLong) {
			records = append(records, Record{Line: line, Err: fmt.Errorf("line %d: exceeds %d byte line limit", line, maxLineSize)})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading corpus: %w", err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		doc, err := model.ParseDocument([]byte(text))
		if err != nil {
			records = append(records, Record{Line: line, Err: fmt.Errorf("line %d: %w", line, err)})
			continue
		}
		records = append(records, Record{Line: line, Doc: doc})
	}
}

// readLine returns the next line without its trailing newline. A line
// longer than maxLineSize is consumed to its end and reported as
// errLineTooLong so the caller can skip it and keep reading.
func readLine(br *bufio.Reader) (string, error) {
	var buf []byte
	for {
		chunk, err := br.ReadSlice('\n')
		buf = append(buf, chunk...)
		if err == bufio.ErrBufferFull {
			if len(buf) > maxLineSize {
				return "", drainLine(br)
			}
			continue
		}
		if err == io.EOF && len(buf) == 0 {
			return "", io.EOF
		}
		if err != nil && err != io.EOF {
			return "", err
		}
		if len(buf) > maxLineSize {
			return "", errLineTooLong
		}
		return strings.TrimSuffix(string(buf), "\n"), nil
	}
}

// drainLine discards input up to and including the next newline.
func drainLine(br *bufio.Reader) error {
	for {
		_, err := br.ReadSlice('\n')
		switch err {
		case bufio.ErrBufferFull:
			continue
		case nil, io.EOF:
			return errLineTooLong
		default:
			return err
		}
	}
}

// ReadFile opens a JSONL file and reads its record sequence.
func ReadFile(path string) ([]Record, error) {
	file, err := os.Open(path) // #nosec G304 -- path comes from config/CLI, not remote input
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()
	return ReadAll(file)
}
