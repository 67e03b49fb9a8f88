// Package main implements the shardstore command-line tool for working with
// a local store: put, get, info, rm and destroy.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/prn-tf/shardstore/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "shardstore",
		Short:         "Sharded content-addressable file storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("root", "./data/files", "storage root directory")
	root.PersistentFlags().String("prefix", "", "public path prefix")
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		bindConfig(v, f.Name, f)
	})

	root.AddCommand(
		newPutCmd(v),
		newGetCmd(v),
		newInfoCmd(v),
		newRmCmd(v),
		newDestroyCmd(v),
	)
	return root
}

func bindConfig(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// openStore builds a store over the real filesystem from the bound flags.
func openStore(v *viper.Viper) *store.Store {
	level := zerolog.WarnLevel
	if v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	cfg := store.Config{
		Root:   v.GetString("root"),
		Prefix: v.GetString("prefix"),
	}
	return store.New(afero.NewOsFs(), cfg, nil, logger)
}

func newPutCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "put <identifier> [file]",
		Short: "Store a file (or stdin) under the identifier",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 2 {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			saved, err := openStore(v).Save(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), saved)
		},
	}
}

func newGetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get <identifier>",
		Short: "Print the stored content to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := openStore(v).Retrieve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer rc.Close()
			_, err = io.Copy(cmd.OutOrStdout(), rc)
			return err
		},
	}
}

func newInfoCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "info <identifier>",
		Short: "Print stored file metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), openStore(v).Info(cmd.Context(), args[0]))
		},
	}
}

func newRmCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <identifier>",
		Short: "Remove the stored content (no error if absent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore(v).Remove(cmd.Context(), args[0])
		},
	}
}

func newDestroyCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete the entire storage root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return fmt.Errorf("refusing to delete %s without --force", v.GetString("root"))
			}
			return openStore(v).Destroy(cmd.Context())
		},
	}
	cmd.Flags().Bool("force", false, "confirm deletion of the storage root")
	return cmd
}

func printJSON(w io.Writer, body any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(body)
}
