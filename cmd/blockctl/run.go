package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockalloc/alloc"
	"github.com/joshuapare/blockalloc/internal/script"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Replay a script and print every result",
		Long: `The run command replays an allocation script and prints the outcome of
each operation: the offset granted to an alloc, the bytes returned by a free.
A request that does not fit is reported as FAIL and the replay continues.
Invalid arguments and use after destroy stop the replay with an error.

Example:
  blockctl run testdata/reference.txt
  blockctl run ops.txt --backing mmap --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	return cmd
}

// resultJSON is the JSON form of one replayed operation.
type resultJSON struct {
	Line    int    `json:"line"`
	Op      string `json:"op"`
	Offset  *int   `json:"offset,omitempty"`
	Freed   *int   `json:"freed,omitempty"`
	NoSpace bool   `json:"no_space,omitempty"`
	Error   string `json:"error,omitempty"`
}

func runRun(args []string) error {
	rep, runErr := replayScript(args[0])
	if rep == nil {
		return runErr
	}

	if jsonOut {
		out := make([]resultJSON, 0, len(rep.Results))
		for _, res := range rep.Results {
			out = append(out, toResultJSON(res))
		}
		if err := printJSON(out); err != nil {
			return err
		}
		return runErr
	}

	for _, res := range rep.Results {
		printInfo("%s\n", describeResult(res))
	}
	return runErr
}

// replayScript parses the script at path and replays it with the configured backing.
func replayScript(path string) (*script.Report, error) {
	b, err := alloc.ParseBacking(backingName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	ops, err := script.Parse(f)
	if err != nil {
		return nil, err
	}
	printVerbose("Replaying %s: %d operations, %s backing\n", path, len(ops), b)

	return script.Run(ops, script.Options{Backing: b})
}

func toResultJSON(res script.Result) resultJSON {
	out := resultJSON{Line: res.Op.Line, Op: res.Op.String()}
	switch {
	case errors.Is(res.Err, alloc.ErrNoSpace):
		out.NoSpace = true
	case res.Err != nil:
		out.Error = res.Err.Error()
	case res.Op.Kind == script.OpAlloc:
		out.Offset = &res.Offset
	case res.Op.Kind == script.OpFree:
		out.Freed = &res.Freed
	}
	return out
}

func describeResult(res script.Result) string {
	op := res.Op
	var label string
	switch op.Kind {
	case script.OpCreate:
		label = fmt.Sprintf("create %d", op.Size)
	case script.OpAlloc:
		label = fmt.Sprintf("alloc %d owner=%d", op.Size, op.Owner)
	case script.OpFree:
		label = fmt.Sprintf("free owner=%d", op.Owner)
	default:
		label = op.String()
	}

	switch {
	case errors.Is(res.Err, alloc.ErrNoSpace):
		return label + " -> FAIL (no space)"
	case res.Err != nil:
		return fmt.Sprintf("%s -> error: %v", label, res.Err)
	case op.Kind == script.OpAlloc:
		return fmt.Sprintf("%s -> %d", label, res.Offset)
	case op.Kind == script.OpFree:
		return fmt.Sprintf("%s -> %d bytes", label, res.Freed)
	default:
		return label + " -> ok"
	}
}
