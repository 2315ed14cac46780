package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/canforge/canforge/internal/compiler"
	"github.com/canforge/canforge/internal/ir"
	"github.com/canforge/canforge/internal/loader"
	"github.com/canforge/canforge/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output          string // output file path
	DBPath          string // snapshot store path
	FingerprintOnly bool
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <network.yaml>",
		Short: "Compile a network definition to a network model",
		Long: `Compile a YAML network definition into an immutable network model.

The compiler resolves types, assigns message ids, flattens signal layouts,
and links nodes into a complete network. The resulting model carries a
content fingerprint so identical definitions yield identical models.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path for the snapshot")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "save the snapshot to this SQLite database")
	cmd.Flags().BoolVar(&opts.FingerprintOnly, "fingerprint-only", false, "print only the model fingerprint")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	network, err := compileDefinition(formatter, path)
	if err != nil {
		return err
	}

	snap, err := network.Snapshot()
	if err != nil {
		_ = formatter.Error("SNAPSHOT_ERROR", err.Error(), nil)
		return WrapExitError(ExitCommandError, "building snapshot", err)
	}

	if opts.FingerprintOnly {
		return formatter.Success(snap.Fingerprint)
	}

	if opts.Output != "" {
		if err := writeSnapshotToFile(snap, opts.Output); err != nil {
			_ = formatter.Error("WRITE_FAILED", err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	if opts.DBPath != "" {
		if err := saveSnapshot(snap, opts.DBPath); err != nil {
			_ = formatter.Error("STORE_FAILED", err.Error(), nil)
			return WrapExitError(ExitCommandError, "saving snapshot", err)
		}
		formatter.VerboseLog("Saved snapshot %s to %s", snap.BuildID, opts.DBPath)
	}

	return outputCompileSuccess(formatter, network, snap, opts.Output)
}

// compileDefinition loads and compiles a network definition, mapping
// loader and compiler errors to the right exit codes.
func compileDefinition(formatter *OutputFormatter, path string) (*ir.Network, error) {
	nw, err := loader.Load(path)
	if err != nil {
		// An unreadable path is a command error; a definition that parses
		// or validates badly is a data error.
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			_ = formatter.Error("READ_FAILED", err.Error(), nil)
			return nil, WrapExitError(ExitCommandError, "reading definition", err)
		}
		var loadErr *loader.LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return nil, WrapExitError(ExitFailure, "loading definition", err)
		}
		_ = formatter.Error("READ_FAILED", err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "reading definition", err)
	}

	network, err := compiler.Compile(nw)
	if err != nil {
		var compileErr *compiler.CompileError
		if errors.As(err, &compileErr) {
			_ = formatter.Error(compileErr.Code, fmt.Sprintf("%s: %s", compileErr.Entity, compileErr.Message), nil)
			return nil, WrapExitError(ExitFailure, "compiling network", err)
		}
		_ = formatter.Error("COMPILE_FAILED", err.Error(), nil)
		return nil, WrapExitError(ExitFailure, "compiling network", err)
	}

	return network, nil
}

func saveSnapshot(snap ir.NetworkSnapshot, dbPath string) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.SaveSnapshot(snap)
}

// outputCompileSuccess outputs the compiled model summary.
func outputCompileSuccess(formatter *OutputFormatter, network *ir.Network, snap ir.NetworkSnapshot, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(snap)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d node(s), %d message(s), %d type(s)\n\n",
		len(network.Nodes), len(network.Messages), len(network.Types))

	fmt.Fprintf(formatter.Writer, "Build:       %s\n", snap.BuildID)
	fmt.Fprintf(formatter.Writer, "Fingerprint: %s\n", snap.Fingerprint)
	fmt.Fprintf(formatter.Writer, "Baudrate:    %d\n\n", network.Baudrate)

	if len(network.Nodes) > 0 {
		fmt.Fprintln(formatter.Writer, "Nodes:")
		for _, node := range network.Nodes {
			fmt.Fprintf(formatter.Writer, "  %s (id %d): %d tx, %d rx, %d object entr%s\n",
				node.Name, node.ID, len(node.TxMessages), len(node.RxMessages),
				len(node.ObjectEntries), plural(len(node.ObjectEntries), "y", "ies"))
		}
		fmt.Fprintln(formatter.Writer)
	}

	if len(network.Messages) > 0 {
		fmt.Fprintln(formatter.Writer, "Messages:")
		for _, msg := range network.Messages {
			fmt.Fprintf(formatter.Writer, "  %s %s on %s: dlc %d, %d signal(s)\n",
				msg.ID, msg.Name, msg.Bus.Name, msg.DLC, len(msg.Signals))
		}
		fmt.Fprintln(formatter.Writer)
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote snapshot to %s\n", outputFile)
	}

	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// writeSnapshotToFile writes the snapshot to a file as indented JSON.
func writeSnapshotToFile(snap ir.NetworkSnapshot, filename string) error {
	// Indented JSON for readability; canonical JSON is used only for
	// fingerprinting.
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
