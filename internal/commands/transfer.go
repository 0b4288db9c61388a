package commands

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"taskpad/internal/exitcode"
	"taskpad/internal/output"
	"taskpad/internal/task"
)

func init() {
	Register(&ExportCmd{})
	Register(&ImportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	out    string
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Write all tasks to a file" }
func (c *ExportCmd) Usage() string {
	return "taskpad export [--format json|csv|pdf] [--out <path>|-]"
}
func (c *ExportCmd) NeedsStore() bool { return true }
func (c *ExportCmd) NeedsAuth() bool  { return false }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", output.FormatJSON, "")
	fs.StringVar(&c.out, "out", "", "")
	fs.StringVar(&c.out, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	format := strings.ToLower(strings.TrimSpace(c.format))
	if !slices.Contains(output.Formats, format) {
		fmt.Fprintf(errOut, "error: unknown export format: %s (use %s)\n", c.format, strings.Join(output.Formats, ", "))
		return exitcode.UserError
	}

	var buf bytes.Buffer
	switch format {
	case output.FormatJSON:
		data, err := env.Store.Export()
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.StorageError
		}
		buf.Write(data)
	case output.FormatCSV:
		if err := output.WriteCSV(&buf, env.Store.Tasks()); err != nil {
			fmt.Fprintf(errOut, "error: failed to write csv: %v\n", err)
			return exitcode.UserError
		}
	case output.FormatPDF:
		if err := output.WritePDF(&buf, env.Store.Tasks(), env.Store.Stats(), env.now()); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if c.out == "-" {
		out.Write(buf.Bytes())
		return exitcode.Success
	}
	path := c.out
	if path == "" {
		path = task.ExportFilename(env.now(), format)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(errOut, "error: failed to write export: %v\n", err)
		return exitcode.UserError
	}
	env.Logger.Debug("exported tasks", "path", path, "format", format, "bytes", buf.Len())

	if !env.Config.Quiet {
		n := env.Store.Len()
		fmt.Fprintf(out, "exported %d %s to %s\n", n, taskNoun(n), path)
	}
	return exitcode.Success
}

// ImportCmd implements the import command.
type ImportCmd struct{}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Merge tasks from an exported JSON file" }
func (c *ImportCmd) Usage() string     { return "taskpad import <file>|-" }
func (c *ImportCmd) NeedsStore() bool  { return true }
func (c *ImportCmd) NeedsAuth() bool   { return false }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ImportCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: file required")
		return exitcode.UserError
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	// The whole document is read before the store is touched.
	var blob []byte
	var err error
	if args[0] == "-" {
		if env.Stdin == nil {
			fmt.Fprintln(errOut, "error: no input on stdin")
			return exitcode.UserError
		}
		blob, err = io.ReadAll(env.Stdin)
	} else {
		blob, err = os.ReadFile(args[0])
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to read import: %v\n", err)
		return exitcode.UserError
	}

	rep, err := env.Store.ImportWithReport(blob)
	var verr *task.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(errOut, "error: %v\n", verr)
		output.FormatRejections(errOut, verr.Rejected)
		return exitcode.UserError
	}
	if persisted(err) && !env.Config.Quiet {
		output.FormatImportReport(out, rep)
		output.FormatRejections(out, rep.Rejected)
	}
	return reportError(errOut, err)
}
