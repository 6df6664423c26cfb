package present

import (
	"errors"
	"os/exec"
)

// ErrNoSpeaker is returned when no text-to-speech command is installed.
var ErrNoSpeaker = errors.New("no text-to-speech command found")

// Speaker reads text aloud.
type Speaker interface {
	Say(text string) error
}

// speechCommands are tried in order.
var speechCommands = []string{"say", "espeak-ng", "espeak", "spd-say"}

// CommandSpeaker speaks by running a system command with the text as its
// last argument.
type CommandSpeaker struct {
	Path string
	Args []string

	run func(name string, args ...string) error
}

// Say runs the speech command and waits for it to finish.
func (c *CommandSpeaker) Say(text string) error {
	args := append(append([]string{}, c.Args...), text)
	if c.run != nil {
		return c.run(c.Path, args...)
	}
	return exec.Command(c.Path, args...).Run()
}

// DetectSpeaker returns a speaker for the first speech command on PATH.
func DetectSpeaker() (*CommandSpeaker, error) {
	return detectSpeaker(exec.LookPath)
}

func detectSpeaker(lookPath func(string) (string, error)) (*CommandSpeaker, error) {
	for _, name := range speechCommands {
		if path, err := lookPath(name); err == nil {
			return &CommandSpeaker{Path: path}, nil
		}
	}
	return nil, ErrNoSpeaker
}
