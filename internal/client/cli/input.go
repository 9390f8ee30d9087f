package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// readLine returns the next line without its line ending. A final line
// without a newline is returned as is; io.EOF is reported only when nothing
// was read.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// GetSimpleText shows prompt on w and reads one trimmed answer:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s\n> ", prompt); err != nil {
		return "", err
	}
	line, err := readLine(reader)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetTextWithDefault is GetSimpleText that returns def on an empty answer.
// The default is shown in brackets after the prompt.
func GetTextWithDefault(reader *bufio.Reader, prompt, def string, w io.Writer) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	s, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

// GetPassword reads a password from the terminal without echo.
// Callers wipe the returned slice once done with it.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := io.WriteString(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	return pw, err
}

// GetMultiline collects lines until an empty one (or the end of input) and
// joins them with '\n'. Surrounding whitespace of the whole text is trimmed;
// indentation inside it is kept.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s\n(press Enter on an empty line to finish)\n", prompt); err != nil {
		return "", err
	}

	var b strings.Builder
	for {
		line, err := readLine(reader)
		if err != nil || line == "" {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}

	return strings.TrimSpace(b.String()), nil
}
