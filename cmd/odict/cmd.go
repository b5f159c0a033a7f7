package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/UTD-JLA/odict/internal/document"
	"github.com/UTD-JLA/odict/internal/store"
	"github.com/UTD-JLA/odict/pkg/attraccess"
	"github.com/UTD-JLA/odict/pkg/reverse"
	"github.com/davecgh/go-spew/spew"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "odict.toml"

type app struct {
	configPath string
	file       string
	format     string
	output     string
	debug      bool

	config *Config
}

func NewCLI() *cobra.Command {
	a := &app{config: NewConfig()}

	rootCmd := &cobra.Command{
		Use:           "odict",
		Short:         "Inspect and reorder the top-level entries of JSON and YAML documents",
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", defaultConfigPath, "Path to config file")
	flags.StringVarP(&a.file, "file", "f", "", "Document to read, - for stdin")
	flags.StringVar(&a.format, "format", "", "Input format (json or yaml), inferred from the file name by default")
	flags.StringVarP(&a.output, "output", "o", "", "Output format (json or yaml)")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(
		a.keysCmd(),
		a.valuesCmd(),
		a.itemsCmd(),
		a.getCmd(),
		a.attrCmd(),
		a.setCmd(),
		a.delCmd(),
		a.lookupCmd(),
		a.reverseCmd(),
		a.moveCmd(),
		a.dumpCmd(),
		a.saveCmd(),
		a.loadCmd(),
		a.listCmd(),
		a.dropCmd(),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	err := a.config.Load(a.configPath)

	// the default config file is optional
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		err = nil
	}

	if err != nil {
		return err
	}

	if a.debug || a.config.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	return nil
}

func (a *app) load(cmd *cobra.Command) (*document.Mapping, error) {
	if a.file == "" {
		return nil, errors.New("no document specified, use --file")
	}

	var format document.Format

	if a.format != "" {
		var err error
		if format, err = document.ParseFormat(a.format); err != nil {
			return nil, err
		}
	} else if a.file == "-" {
		format = document.FormatJSON
	}

	slog.Debug("reading document", slog.String("file", a.file), slog.String("format", string(format)))

	if a.file == "-" {
		return document.Read(cmd.InOrStdin(), format)
	}

	return document.ReadFile(a.file, format)
}

func (a *app) outputFormat() (document.Format, error) {
	for _, candidate := range []string{a.output, a.config.Format, a.format} {
		if candidate != "" {
			return document.ParseFormat(candidate)
		}
	}

	if format, err := document.FormatFromPath(a.file); err == nil {
		return format, nil
	}

	return document.FormatJSON, nil
}

func (a *app) write(w io.Writer, m *document.Mapping) error {
	format, err := a.outputFormat()
	if err != nil {
		return err
	}

	return document.Write(w, m, format)
}

func (a *app) repository(cmd *cobra.Command) (*store.MappingRepository, func(), error) {
	ctx := cmd.Context()

	pool, err := pgxpool.New(ctx, a.config.Database.ConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := store.NewMappingRepository(pool)

	if err = repo.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, pool.Close, nil
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	return string(data)
}

func renderTable(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

func (a *app) keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the keys in document order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			for _, key := range m.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}

			return nil
		},
	}
}

func (a *app) valuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "values",
		Short: "Print the values in document order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			for _, value := range m.Values() {
				fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
			}

			return nil
		},
	}
}

func (a *app) itemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "items",
		Aliases: []string{"ls"},
		Short:   "Print a table of keys and values",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			var data [][]string
			for key, value := range m.All() {
				data = append(data, []string{key, formatValue(value)})
			}

			renderTable(cmd.OutOrStdout(), []string{"KEY", "VALUE"}, data)
			return nil
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value stored under KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			value, err := m.Item(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
			return nil
		},
	}
}

func (a *app) attrCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attr [NAME]",
		Short: "Print an attribute, or all attribute names",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			proxy := attraccess.New[any](m)

			if len(args) == 0 {
				for _, name := range proxy.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			value, err := proxy.Attr(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
			return nil
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set NAME VALUE",
		Short: "Set an attribute and print the resulting document",
		Long:  "Set an attribute and print the resulting document. VALUE is read as a YAML scalar, quote it to force a string.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			if err = attraccess.New[any](m).SetAttr(args[0], document.ParseScalar(args[1])); err != nil {
				return err
			}

			return a.write(cmd.OutOrStdout(), m)
		},
	}
}

func (a *app) delCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "del NAME",
		Short: "Delete an attribute and print the resulting document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			if err = attraccess.New[any](m).DelAttr(args[0]); err != nil {
				return err
			}

			return a.write(cmd.OutOrStdout(), m)
		},
	}
}

func (a *app) lookupCmd() *cobra.Command {
	var def string

	cmd := &cobra.Command{
		Use:   "lookup VALUE",
		Short: "Print the first key holding VALUE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			view := reverse.NewFunc[string, any](m, document.Equal)
			value := document.ParseScalar(args[0])

			if cmd.Flags().Changed("default") {
				fmt.Fprintln(cmd.OutOrStdout(), view.GetOr(value, def))
				return nil
			}

			key, err := view.Item(value)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}

	cmd.Flags().StringVar(&def, "default", "", "Print this instead of failing when no key holds VALUE")

	return cmd
}

func (a *app) reverseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reverse",
		Short: "Print a table of values and the keys holding them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			var data [][]string
			for _, item := range reverse.NewFunc[string, any](m, document.Equal).Items() {
				data = append(data, []string{formatValue(item.Key), item.Value})
			}

			renderTable(cmd.OutOrStdout(), []string{"VALUE", "KEY"}, data)
			return nil
		},
	}
}

func (a *app) moveCmd() *cobra.Command {
	var front, back bool
	var before, after, swap string

	cmd := &cobra.Command{
		Use:   "move KEY",
		Short: "Reorder KEY and print the resulting document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			key := args[0]

			switch {
			case front:
				err = m.MoveToFront(key)
			case back:
				err = m.MoveToBack(key)
			case cmd.Flags().Changed("before"):
				err = m.MoveBefore(key, before)
			case cmd.Flags().Changed("after"):
				err = m.MoveAfter(key, after)
			case cmd.Flags().Changed("swap"):
				err = m.Swap(key, swap)
			default:
				err = errors.New("no destination specified")
			}

			if err != nil {
				return err
			}

			return a.write(cmd.OutOrStdout(), m)
		},
	}

	cmd.Flags().BoolVar(&front, "front", false, "Move KEY to the front")
	cmd.Flags().BoolVar(&back, "back", false, "Move KEY to the back")
	cmd.Flags().StringVar(&before, "before", "", "Move KEY right before this key")
	cmd.Flags().StringVar(&after, "after", "", "Move KEY right after this key")
	cmd.Flags().StringVar(&swap, "swap", "", "Swap KEY with this key")
	cmd.MarkFlagsMutuallyExclusive("front", "back", "before", "after", "swap")

	return cmd
}

func (a *app) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Dump the entries with their Go types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			config := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
			config.Fdump(cmd.OutOrStdout(), m.Items())
			return nil
		},
	}
}

func (a *app) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save NAME",
		Short: "Store the document in the database under NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			repo, closeRepo, err := a.repository(cmd)
			if err != nil {
				return err
			}

			defer closeRepo()

			return repo.Save(cmd.Context(), args[0], m)
		},
	}
}

func (a *app) loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load NAME",
		Short: "Print a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeRepo, err := a.repository(cmd)
			if err != nil {
				return err
			}

			defer closeRepo()

			m, err := repo.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return a.write(cmd.OutOrStdout(), m)
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeRepo, err := a.repository(cmd)
			if err != nil {
				return err
			}

			defer closeRepo()

			names, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}

			return nil
		},
	}
}

func (a *app) dropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop NAME",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeRepo, err := a.repository(cmd)
			if err != nil {
				return err
			}

			defer closeRepo()

			return repo.Delete(cmd.Context(), args[0])
		},
	}
}
