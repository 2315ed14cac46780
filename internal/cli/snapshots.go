package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canforge/canforge/internal/store"
)

// SnapshotsOptions holds flags for the snapshots command.
type SnapshotsOptions struct {
	*RootOptions
	DBPath string
}

// NewSnapshotsCommand creates the snapshots command group.
func NewSnapshotsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Inspect stored network snapshots",
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "canforge.db", "snapshot database path")

	cmd.AddCommand(newSnapshotsListCommand(opts))
	cmd.AddCommand(newSnapshotsShowCommand(opts))

	return cmd
}

func newSnapshotsListCommand(opts *SnapshotsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored snapshots",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotsList(opts, cmd)
		},
	}
}

func newSnapshotsShowCommand(opts *SnapshotsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <build-id>",
		Short:         "Show a stored snapshot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotsShow(opts, args[0], cmd)
		},
	}
}

func runSnapshotsList(opts *SnapshotsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openStore(formatter, opts.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	infos, err := st.ListSnapshots()
	if err != nil {
		_ = formatter.Error("STORE_FAILED", err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing snapshots", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(formatter.Writer, "No snapshots stored")
		return nil
	}

	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s\n",
			info.BuildID, info.CompiledAt, info.Fingerprint)
	}
	return nil
}

func runSnapshotsShow(opts *SnapshotsOptions, buildID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openStore(formatter, opts.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	snap, err := st.GetSnapshot(buildID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = formatter.Error("NOT_FOUND", err.Error(), nil)
			return WrapExitError(ExitCommandError, "snapshot not found", err)
		}
		_ = formatter.Error("STORE_FAILED", err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading snapshot", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(snap)
	}

	fmt.Fprintf(formatter.Writer, "Build:       %s\n", snap.BuildID)
	fmt.Fprintf(formatter.Writer, "Compiled:    %s\n", snap.CompiledAt)
	fmt.Fprintf(formatter.Writer, "Fingerprint: %s\n", snap.Fingerprint)
	fmt.Fprintf(formatter.Writer, "Baudrate:    %d\n", snap.Baudrate)
	fmt.Fprintf(formatter.Writer, "Nodes:       %d\n", len(snap.Nodes))
	fmt.Fprintf(formatter.Writer, "Messages:    %d\n", len(snap.Messages))
	fmt.Fprintf(formatter.Writer, "Types:       %d\n", len(snap.Types))
	return nil
}

// openStore opens the snapshot database, requiring it to exist already.
// Creating a database is the compile command's job.
func openStore(formatter *OutputFormatter, dbPath string) (*store.Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		_ = formatter.Error("DB_NOT_FOUND", fmt.Sprintf("database %s does not exist", dbPath), nil)
		return nil, WrapExitError(ExitCommandError, "opening database", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error("DB_OPEN_FAILED", err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "opening database", err)
	}
	return st, nil
}
