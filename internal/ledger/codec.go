package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/yourssweeper/internal/strutil"
)

// Encode writes entries as two lines each: the difficulty name, then
// "<holder>: <seconds> seconds".
func Encode(entries []Entry) []byte {
	var b bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&b, "%s\n%s: %d seconds\n", e.Difficulty, e.Name, e.Seconds)
	}
	return b.Bytes()
}

// Decode parses the output of [Encode]. Empty input yields no entries.
func Decode(data []byte) ([]Entry, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var (
		entries []Entry
		header  string
		n       int
	)
	for i, line := range strutil.ByPiece(text, "\n") {
		n = i + 1
		line = strings.TrimSpace(line)
		if i%2 == 0 {
			if line == "" {
				return nil, fmt.Errorf("%w: line %d: missing difficulty name", ErrMalformed, n)
			}
			header = line
			continue
		}
		record, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, n, err)
		}
		entries = append(entries, Entry{Difficulty: header, Record: record})
	}
	if n%2 != 0 {
		return nil, fmt.Errorf("%w: line %d: %s has no record", ErrMalformed, n, header)
	}
	return entries, nil
}

func parseRecord(line string) (Record, error) {
	i := strings.LastIndex(line, ": ")
	if i < 0 {
		return Record{}, errors.New(`expected "<name>: <seconds> seconds"`)
	}
	name := line[:i]
	if name == "" {
		return Record{}, errors.New("empty holder name")
	}
	secondsStr, ok := strings.CutSuffix(line[i+2:], " seconds")
	if !ok {
		return Record{}, errors.New(`missing " seconds" suffix`)
	}
	seconds, err := strconv.Atoi(secondsStr)
	if err != nil {
		return Record{}, fmt.Errorf("invalid seconds: %w", err)
	}
	if seconds < 0 {
		return Record{}, fmt.Errorf("negative seconds: %d", seconds)
	}
	return Record{Name: name, Seconds: seconds}, nil
}
