package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const minPasswordLength = 6

var errPasswordMismatch = errors.New("passwords do not match")

// passwordReader reads a password with echo disabled on terminals and as a
// plain line otherwise, so scripts can pipe it in.
type passwordReader struct {
	in  io.Reader
	out io.Writer
	fd  int
	tty bool
}

func newPasswordReader(out io.Writer) *passwordReader {
	fd := int(os.Stdin.Fd())
	return &passwordReader{in: os.Stdin, out: out, fd: fd, tty: term.IsTerminal(fd)}
}

func (p *passwordReader) readLine(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if p.tty {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		return string(b), err
	}
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ask prompts for a new password. Terminals must confirm it.
func (p *passwordReader) ask() (string, error) {
	pw, err := p.readLine("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(pw) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if !p.tty {
		return pw, nil
	}
	confirm, err := p.readLine("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if confirm != pw {
		return "", errPasswordMismatch
	}
	return pw, nil
}

// passwordFlagOrPrompt uses the flag value when set and prompts otherwise.
func passwordFlagOrPrompt(flagValue string, out io.Writer) (string, error) {
	if flagValue != "" {
		if len(flagValue) < minPasswordLength {
			return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
		}
		return flagValue, nil
	}
	return newPasswordReader(out).ask()
}
