package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// promptSecret prints label and reads one line from in. Echo is switched off
// when in is a terminal; piped input is read as-is.
func promptSecret(out io.Writer, in *os.File, label string) (string, error) {
	if in == nil {
		return "", errors.New("stdin unavailable")
	}
	fmt.Fprint(out, label)

	restore, err := disableEcho(in)
	if err == nil {
		defer func() {
			restore()
			fmt.Fprintln(out)
		}()
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
