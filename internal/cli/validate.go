// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/program"
)

// FileResult is the validation outcome of one program file.
type FileResult struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Steps int    `json:"steps,omitempty"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool         `json:"valid"`
	Files []FileResult `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <program>...",
		Short: "Compile program files without rendering",
		Long: `Validate compiles each program file and reports unknown steps and
malformed values with their line numbers.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runValidate(rootOpts *RootOptions, paths []string, cmd *cobra.Command) error {
	f := rootOpts.formatter(cmd)
	log := rootOpts.Logger()

	result := ValidationResult{Valid: true}
	missing := false
	for _, path := range paths {
		file, err := program.Load(path, dsel.NewGensym())
		if err != nil {
			result.Valid = false
			missing = missing || isPathError(err)
			result.Files = append(result.Files, FileResult{Path: path, Error: err.Error()})
			log.Debug("invalid program", "path", path, "err", err)
			continue
		}
		result.Files = append(result.Files, FileResult{Path: path, Valid: true, Steps: file.Steps})
	}

	if f.Format == "json" {
		if err := f.Success(result); err != nil {
			return err
		}
	} else {
		for _, r := range result.Files {
			if r.Valid {
				fmt.Fprintf(f.Writer, "✓ %s (%d steps)\n", r.Path, r.Steps)
				continue
			}
			fmt.Fprintf(f.Writer, "✗ %s\n  %s\n", r.Path, r.Error)
		}
	}

	switch {
	case missing:
		return NewExitError(ExitCommandError, "program file not readable")
	case !result.Valid:
		return WrapExitError(ExitFailure, ErrCodeProgram, errors.New("validation failed"))
	}
	return nil
}
