package main

import (
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/you-not-fish/kaleido/internal/compiler"
)

type (
	// lineEditor is the part of *liner.State the REPL uses.
	lineEditor interface {
		Prompt(prompt string) (string, error)
		AppendHistory(item string)
	}

	// promptReader reads typed lines as one stream of source text.
	// A prompt is shown only when the parser needs more input.
	// Lines starting with ':' are REPL commands and never reach the parser.
	promptReader struct {
		ed lineEditor
		w  io.Writer
		s  *compiler.Session

		buf  string
		done bool
	}
)

var _ lineEditor = (*liner.State)(nil)

func (r *promptReader) Read(p []byte) (int, error) {
	for r.buf == "" {
		if r.done {
			return 0, io.EOF
		}

		line, err := r.ed.Prompt(promptMain)
		if err == io.EOF || err == liner.ErrPromptAborted {
			r.done = true
			return 0, io.EOF
		}
		if err != nil {
			return 0, err
		}

		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}

		r.ed.AppendHistory(code)

		if strings.HasPrefix(code, ":") {
			r.done = replCommand(r.w, r.s, code)
			continue
		}

		r.buf = line + "\n"
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]

	return n, nil
}
