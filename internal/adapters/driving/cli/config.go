package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/config"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/config/file"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the corpus configuration file",
	Long: `View and change the settings stored in <dir>/` + file.FileName + `.

Flags passed to other commands override these settings for that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show [dir]",
	Short: "Show the stored settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key> [dir]",
	Short: "Print one stored setting",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value> [dir]",
	Short: "Store a setting",
	Long: `Stores a setting in the corpus configuration file, creating it if needed.

Lists are comma separated. Run "markdown-graph config keys" for every key.

Examples:
  markdown-graph config set output.path graph.db
  markdown-graph config set graph.link_attribution section notes/
  markdown-graph config set repository.excludes node_modules,vendor`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the recognised settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, key := range config.Keys() {
			cmd.Printf("%-26s %s\n", key, config.Usage(key))
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

// openConfig opens the config file of the corpus named by args[i:].
func openConfig(args []string, i int) (*file.ConfigStore, error) {
	var rest []string
	if len(args) > i {
		rest = args[i:]
	}
	dir, err := corpusDir(rest)
	if err != nil {
		return nil, err
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return store, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	store, err := openConfig(args, 0)
	if err != nil {
		return err
	}
	if _, err := config.LoadSettings(store); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	s := styles.DefaultStyles()
	cmd.Println(s.Muted.Render(store.Path()))
	keys := store.Keys()
	if len(keys) == 0 {
		cmd.Println("No settings stored; defaults apply.")
		return nil
	}
	for _, key := range keys {
		v, _ := store.Get(key)
		cmd.Printf("%s = %s\n", key, formatValue(v))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	store, err := openConfig(args, 1)
	if err != nil {
		return err
	}
	v, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("%s is not set in %s", args[0], store.Path())
	}
	cmd.Println(formatValue(v))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]
	value, err := config.ParseValue(key, raw)
	if err != nil {
		return err
	}
	store, err := openConfig(args, 2)
	if err != nil {
		return err
	}
	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	s := styles.DefaultStyles()
	cmd.Printf("%s %s = %s\n", s.Success.Render("Set"), key, formatValue(value))
	return nil
}

// formatValue renders a stored value the way config set accepts it.
func formatValue(v any) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ",")
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, fmt.Sprint(item))
		}
		return strings.Join(items, ",")
	default:
		return fmt.Sprint(val)
	}
}
