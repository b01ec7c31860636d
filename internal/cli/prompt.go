package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// promptLine reads one trimmed line from the command's input. Required
// fields are re-prompted until non-empty, like the original first-run
// wizard.
func promptLine(cmd *cobra.Command, label string, required bool) (string, error) {
	reader := bufio.NewReader(cmd.InOrStdin())
	for {
		cmd.Print(label)
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		if line != "" || !required {
			return line, nil
		}
		cmd.Println("This field is required. Please try again.")
	}
}

// promptSecret reads a value with terminal echo disabled. When stdin is not
// a terminal (tests, pipes) it falls back to a plain line read.
func promptSecret(cmd *cobra.Command, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if cmd.InOrStdin() != os.Stdin || !term.IsTerminal(fd) {
		return promptLine(cmd, label, true)
	}

	cmd.Print(label)
	raw, err := term.ReadPassword(fd)
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	value := strings.TrimSpace(string(raw))
	if value == "" {
		return "", fmt.Errorf("this field is required")
	}
	return value, nil
}

// confirm asks a yes/no question, defaulting to no.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	answer, err := promptLine(cmd, question+" [y/N]: ", false)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
