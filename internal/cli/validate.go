package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidationSummary is the JSON payload for a successful validation.
type ValidationSummary struct {
	Valid       bool   `json:"valid"`
	Fingerprint string `json:"fingerprint"`
	Nodes       int    `json:"nodes"`
	Messages    int    `json:"messages"`
	Types       int    `json:"types"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <network.yaml>",
		Short: "Validate a network definition without producing output",
		Long: `Validate a YAML network definition by running the full compilation
pipeline and discarding the result. Exit code 0 means the definition
compiles cleanly.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	network, err := compileDefinition(formatter, path)
	if err != nil {
		return err
	}

	fingerprint, err := network.Fingerprint()
	if err != nil {
		_ = formatter.Error("SNAPSHOT_ERROR", err.Error(), nil)
		return WrapExitError(ExitCommandError, "fingerprinting model", err)
	}

	summary := ValidationSummary{
		Valid:       true,
		Fingerprint: fingerprint,
		Nodes:       len(network.Nodes),
		Messages:    len(network.Messages),
		Types:       len(network.Types),
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	fmt.Fprintf(formatter.Writer, "✓ Valid: %d node(s), %d message(s), %d type(s)\n",
		summary.Nodes, summary.Messages, summary.Types)
	fmt.Fprintf(formatter.Writer, "Fingerprint: %s\n", summary.Fingerprint)
	return nil
}
