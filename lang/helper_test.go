package lang

import (
	"errors"
	"io"
	"strings"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }
