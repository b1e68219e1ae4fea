package cmd

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/quickview/internal/audit"
	"github.com/ziadkadry99/quickview/internal/i18n"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change general storefront settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Print general settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openCLIApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		p := i18n.Printer(language.English)
		fields := a.panel.Fields(p)
		values, err := a.panel.Values(ctx, fields)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			v, ok := values[args[0]]
			if !ok {
				return fmt.Errorf("unknown setting %q", args[0])
			}
			fmt.Println(v)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tVALUE\tTITLE")
		for _, f := range fields {
			if !f.HasValue() {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.ID, values[f.ID], f.Title)
		}
		return w.Flush()
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <id> <value>",
	Short: "Change a general setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openCLIApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		changed, err := a.panel.Save(ctx, audit.ActorCLI, cliActor(), i18n.Printer(language.English), map[string]string{args[0]: args[1]})
		if err != nil {
			return err
		}

		if len(changed) == 0 {
			fmt.Printf("%s unchanged\n", args[0])
			return nil
		}
		fmt.Printf("%s set to %q\n", args[0], args[1])
		return nil
	},
}

// openCLIApp loads config and opens the app with a logger on stderr.
func openCLIApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openApp(ctx, cfg, initLogger(cfg))
}

// cliActor names the local user for audit entries.
func cliActor() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "cli"
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
