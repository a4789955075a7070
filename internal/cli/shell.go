package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

const shellPrompt = "amplipi> "

// newShellCmd runs the interactive shell: a line-oriented loop that splits
// each line like a shell and dispatches it through the same command tree,
// reusing one client and one resolved configuration across iterations.
func newShellCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell dispatching the same commands in a loop",
		Long: `Read commands from stdin and dispatch each line as if it were an amplictl
invocation, sharing one HTTP client across the whole session. The prompt goes
to stderr so stdout stays clean for JSON, and EOF ends the session, which
makes 'amplictl shell < script.txt' a usable batch mode.

Inside the shell, set/new verbs must take their input from --infile or
--input key=value pairs, because stdin belongs to the shell itself.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runShell(cmd)
		},
	}
}

func (a *App) runShell(cmd *cobra.Command) error {
	a.inShell = true
	defer func() { a.inShell = false }()

	scanner := bufio.NewScanner(a.stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(a.stderr, shellPrompt)
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		fields, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(a.stderr, "amplictl: %v\n", err)
			continue
		}
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "exit", "quit":
			return nil
		case "shell":
			fmt.Fprintln(a.stderr, "amplictl: already in a shell")
			continue
		}

		root := NewRootCommand(a)
		root.SetArgs(fields)
		if err := root.ExecuteContext(cmd.Context()); err != nil {
			fmt.Fprintf(a.stderr, "amplictl: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read shell input: %w", err)
	}
	return nil
}
