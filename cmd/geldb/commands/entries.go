package commands

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/gelpkg/geldb"
)

const keysPageSize = 256

func keysCmd(a *app) *cobra.Command {
	var ordered bool
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the keys in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !ordered {
				for key, err := range a.store.Keys(cmd.Context()) {
					if err != nil {
						return err
					}
					fmt.Fprintln(out, key)
				}
				return nil
			}

			s := geldb.Open(a.store.Ref(), geldb.Options[any]{Index: &geldb.BTreeIndex{}})
			from := ""
			for {
				keys, err := s.KeysFrom(cmd.Context(), from, keysPageSize)
				if err != nil {
					return err
				}
				if len(keys) == 0 {
					return nil
				}
				for _, key := range keys {
					fmt.Fprintln(out, key)
				}
				from = keys[len(keys)-1]
			}
		},
	}
	cmd.Flags().BoolVar(&ordered, "ordered", false, "list keys in byte order")
	return cmd
}

func getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value stored under KEY as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok, err := a.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("key %q is not set", args[0])
			}
			data, err := yaml.Marshal(v)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func setCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store VALUE, parsed as YAML, under KEY",
		Long: "Store VALUE, parsed as YAML, under KEY.\n\n" +
			"A VALUE of null (or ~) unsets the key, like rm.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v any
			if err := yaml.Unmarshal([]byte(args[1]), &v); err != nil {
				return fmt.Errorf("invalid value: %w", err)
			}
			return a.store.Set(cmd.Context(), args[0], v)
		},
	}
}

func rmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm KEY...",
		Short: "Unset keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.Update(cmd.Context(), func(ctx context.Context) error {
				for _, key := range args {
					if err := a.store.Set(ctx, key, nil); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func refCmd(a *app) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "ref",
		Short: "Print the serialized store reference as base64",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := a.store.Ref()
			if asYAML {
				data, err := yaml.Marshal(ref)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			data, err := ref.MarshalBinary()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print root and name as YAML")
	return cmd
}
