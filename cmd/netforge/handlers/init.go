package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/netforge/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = wizard.FileExists

	// confirmOverwrite asks before replacing an existing file.
	confirmOverwrite = wizard.ConfirmOverwrite

	// runWizard runs the interactive wizard.
	runWizard = wizard.RunWizard

	// writeSpec writes the spec to a file.
	writeSpec = wizard.WriteSpec

	// stdoutIsTerminal reports whether stdout is attached to a terminal.
	stdoutIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// InitOptions carries the flag values for non-interactive init. A non-empty
// Prefix selects the flag-driven path and skips the wizard entirely.
type InitOptions struct {
	Prefix   string
	TopBlock string
	Zones    []string
	NATMode  string
}

// Init writes a topology spec to a file, either from the interactive wizard
// or directly from flags when a prefix was given on the command line.
func Init(ctx context.Context, outputPath string, opts InitOptions) error {
	interactive := opts.Prefix == ""
	if interactive && !stdoutIsTerminal() {
		return errors.New("init requires an interactive terminal; pass --prefix and friends to skip the wizard")
	}

	if fileExists(outputPath) {
		if !interactive {
			return fmt.Errorf("%s already exists; remove it or choose another --output path", outputPath)
		}
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Init canceled.")
			return nil
		}
	}

	var result *wizard.Result
	var err error
	if interactive {
		printWelcome()
		result, err = runWizard(ctx)
		if err != nil {
			return fmt.Errorf("wizard canceled: %w", err)
		}
	} else {
		result = &wizard.Result{
			NamePrefix: opts.Prefix,
			TopBlock:   opts.TopBlock,
			Zones:      opts.Zones,
			NATMode:    opts.NATMode,
		}
	}

	spec, err := result.ToSpec()
	if err != nil {
		return err
	}

	if err := writeSpec(spec, outputPath); err != nil {
		return fmt.Errorf("failed to write spec: %w", err)
	}

	printInitSuccess(outputPath, result)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("netforge - declarative AWS network topologies")
	fmt.Println("=============================================")
	fmt.Println()
	fmt.Println("This wizard creates a topology spec with sensible defaults.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, result *wizard.Result) {
	fmt.Println()
	fmt.Println("Spec saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()
	fmt.Println("Topology Summary")
	fmt.Println("----------------")
	fmt.Printf("  Prefix:    %s\n", result.NamePrefix)
	fmt.Printf("  Top block: %s\n", result.TopBlock)
	fmt.Printf("  Zones:     %d\n", len(result.Zones))
	fmt.Printf("  NAT mode:  %s\n", result.NATMode)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  netforge plan -c %s\n", outputPath)
	fmt.Printf("  netforge apply -c %s\n", outputPath)
}
