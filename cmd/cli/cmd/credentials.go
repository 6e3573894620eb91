// Package cmd - credential resolution
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"virgin-history/internal/config"
	"virgin-history/internal/errors"
)

// resolveCredentials finds the portal login: flags first, then the
// environment, then the config file (username only; passwords are
// never persisted), then an interactive prompt unless --no-interactive
// forbids it.
func resolveCredentials(cfg *config.Config) (username, password string, err error) {
	username = fetchUsername
	if username == "" {
		username = os.Getenv("VIRGIN_USERNAME")
	}
	if username == "" {
		username = cfg.Auth.Username
	}
	if username == "" {
		if noInteractive {
			return "", "", errors.Input("no username given")
		}
		username, err = promptLine("username: ")
		if err != nil {
			return "", "", err
		}
	}

	password = fetchPassword
	if password == "" {
		password = os.Getenv("VIRGIN_PASSWORD")
	}
	if password == "" {
		if noInteractive {
			return "", "", errors.Input("no password given")
		}
		password, err = promptPassword("password: ")
		if err != nil {
			return "", "", err
		}
	}

	return username, password, nil
}

// promptLine reads one visible line from the terminal.
func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", errors.Input("failed to read username")
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a line with echo disabled.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Input("failed to read password")
	}
	return string(raw), nil
}
