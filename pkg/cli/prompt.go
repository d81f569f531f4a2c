package cli

import (
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func newReadline(c *cli.Command, prompt string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
		Stdin:  io.NopCloser(c.Root().Reader),
		Stdout: c.Root().Writer,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize prompt")
	}
	return rl, nil
}

// confirm asks a yes/no question. EOF and interrupt are a no.
func confirm(c *cli.Command, question string) (bool, error) {
	rl, err := newReadline(c, question+" [y/N] ")
	if err != nil {
		return false, err
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to read answer")
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func readPassword(c *cli.Command) (string, error) {
	rl, err := newReadline(c, "")
	if err != nil {
		return "", err
	}
	defer rl.Close()

	pw, err := rl.ReadPassword("Password: ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to read password")
	}
	return string(pw), nil
}
