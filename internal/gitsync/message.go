package gitsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// messageCmdTimeout bounds how long an external message generator may
// run before the engine falls back to the templated message.
const messageCmdTimeout = 30 * time.Second

// Generator produces a commit message from the three change lists. A
// failing generator never fails the run: the engine falls back to
// FallbackMessage.
type Generator interface {
	Generate(ctx context.Context, added, modified, deleted []string) (string, error)
}

// FallbackMessage is the templated commit message used when no
// generator is configured or the generator fails.
func FallbackMessage(added, modified, deleted []string) string {
	n := len(added) + len(modified) + len(deleted)
	return fmt.Sprintf("chore: sync %d files", n)
}

// changeSummary is the JSON document fed to an external generator.
type changeSummary struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Deleted  []string `json:"deleted"`
}

// CommandGenerator runs a shell command with a JSON change summary on
// stdin and uses its stdout as the commit message.
type CommandGenerator struct {
	Command string
}

// Generate runs the command. An empty stdout counts as a failure so the
// caller falls back rather than committing with a blank message.
func (g *CommandGenerator) Generate(ctx context.Context, added, modified, deleted []string) (string, error) {
	if g.Command == "" {
		return "", fmt.Errorf("no message command configured")
	}

	ctx, cancel := context.WithTimeout(ctx, messageCmdTimeout)
	defer cancel()

	summary := changeSummary{Added: added, Modified: modified, Deleted: deleted}
	if summary.Added == nil {
		summary.Added = []string{}
	}

	if summary.Modified == nil {
		summary.Modified = []string{}
	}

	if summary.Deleted == nil {
		summary.Deleted = []string{}
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshalling change summary: %w", err)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", g.Command)
	cmd.Stdin = bytes.NewReader(payload)

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("running message command: %w", err)
	}

	msg := strings.TrimSpace(string(out))
	if msg == "" {
		return "", fmt.Errorf("message command produced empty output")
	}

	return msg, nil
}
