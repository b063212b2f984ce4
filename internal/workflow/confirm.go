package workflow

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmation tokens. Execution never proceeds until the user types the
// exact token for the mutation class: MOVE relocates folders, SAVE writes a
// catalog file, DELETE removes folders.
const (
	ConfirmMove   = "MOVE"
	ConfirmSave   = "SAVE"
	ConfirmDelete = "DELETE"
)

// Confirmer obtains user confirmation before a destructive step proceeds.
type Confirmer interface {
	Confirm(prompt, token string) (bool, error)
}

// PromptConfirmer prints the prompt and requires the user to type the exact
// confirmation token. Comparison is byte for byte after stripping the line
// ending; "move", " MOVE", and an empty line all decline.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (p *PromptConfirmer) Confirm(prompt, token string) (bool, error) {
	fmt.Fprintf(p.Out, "%s\nType %s to continue: ", prompt, token)
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.TrimRight(line, "\r\n") == token, nil
}

// StaticConfirmer answers every confirmation without prompting. Tests use it
// in place of terminal input; the zero value declines.
type StaticConfirmer struct {
	Answer bool
}

func (s StaticConfirmer) Confirm(string, string) (bool, error) {
	return s.Answer, nil
}
