package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/chloroplast/internal/build"
	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/validation"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Out string `short:"o" help:"Output directory to check, overriding output_folder" type:"path"`
}

func (v *ValidateCmd) Run(root *CLI) error {
	bc, err := root.buildContext(build.Options{OutputDir: v.Out})
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	report := validation.Validate(ctx, bc.DestFs, bc.OutputDir, bc.Resolver.BasePath())
	return printValidation(os.Stdout, report)
}

// printValidation writes the report; error-severity issues fail the command.
func printValidation(w io.Writer, report *validation.Report) error {
	if _, err := report.WriteTo(w); err != nil {
		return foundation.FileSystemError("print validation report").WithCause(err).Build()
	}
	if report.HasErrors() {
		return foundation.ValidationError(fmt.Sprintf("validation found %d error(s)", len(report.Errors()))).
			WithContext("output", report.OutDir).
			Build()
	}
	return nil
}
