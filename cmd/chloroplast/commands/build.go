package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/chloroplast/internal/build"
	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Out         string `short:"o" help:"Output directory, overriding output_folder" type:"path"`
	ErrorReport string `name:"error-report" help:"Also write the per-file error report to this file" type:"path"`
	Validate    bool   `help:"Validate the output after building"`
}

func (b *BuildCmd) Run(root *CLI) error {
	bc, err := root.buildContext(build.Options{OutputDir: b.Out})
	if err != nil {
		return err
	}
	if b.Validate {
		bc.Config.Build.Validate = true
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := build.NewBuilder(bc).Build(ctx)
	if err != nil {
		return err
	}
	return reportBuild(os.Stdout, bc.DestFs, res, b.ErrorReport)
}

// reportBuild prints the outcome of a build. Per-file failures make the
// command fail with a build error after the report is out.
func reportBuild(w io.Writer, fsys afero.Fs, res *build.Result, reportFile string) error {
	fmt.Fprintf(w, "Built %d page(s), copied %d asset(s), skipped %d in %s\n",
		res.Rendered, res.Copied, res.Skipped, res.Duration.Round(time.Millisecond))
	if res.Validation != nil {
		fmt.Fprintln(w, res.Validation.Summary())
	}
	if !res.Errors.HasErrors() {
		return nil
	}

	if _, err := res.Errors.WriteTo(w); err != nil {
		return foundation.FileSystemError("print error report").WithCause(err).Build()
	}
	if reportFile != "" {
		if err := res.Errors.WriteFile(fsys, reportFile); err != nil {
			return foundation.FileSystemError("write error report").WithCause(err).WithContext("path", reportFile).Build()
		}
		fmt.Fprintf(w, "Error report written to %s\n", reportFile)
	}
	return foundation.BuildError(fmt.Sprintf("%d file(s) failed to build", res.Errors.Len())).Build()
}
