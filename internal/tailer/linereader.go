package tailer

import (
	"bufio"
	"io"
)

// lineReader yields one line at a time without bufio.Scanner's token size
// cap; tool-use payloads routinely exceed 64KB on a single line.
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// next returns the next line without its trailing newline. On EOF it returns
// whatever final unterminated bytes remain (nil if none) along with the
// error.
func (l *lineReader) next() ([]byte, error) {
	line, err := l.r.ReadBytes('\n')
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	if len(line) == 0 {
		line = nil
	}
	return line, err
}
