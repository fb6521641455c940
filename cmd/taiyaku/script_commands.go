package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taiyaku/internal/dispatch"
	"taiyaku/internal/scripts"
)

// textFlags holds --title/--english/--japanese. A field is only sent when its
// flag was given, so an omitted text reaches the daemon as missing.
type textFlags struct {
	title    string
	english  string
	japanese string
}

func (f *textFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Script title (titled stores only)")
	cmd.Flags().StringVarP(&f.english, "english", "e", "", "English text")
	cmd.Flags().StringVarP(&f.japanese, "japanese", "j", "", "Japanese text")
}

func changedValue(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v := value
	return &v
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid script id %q", arg)
	}
	return id, nil
}

func newSaveCommand(ctx *commandContext) *cobra.Command {
	var texts textFlags
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Store a new script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dispatch.SaveRequest{
				Title:        changedValue(cmd, "title", texts.title),
				EnglishText:  changedValue(cmd, "english", texts.english),
				JapaneseText: changedValue(cmd, "japanese", texts.japanese),
			}
			return ctx.withClient(func(client backend) error {
				resp, err := client.Save(req)
				if err != nil {
					return err
				}
				if ctx.flags.json {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved script %d\n", resp.ID)
				return nil
			})
		},
	}
	texts.register(cmd)
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every stored script",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client backend) error {
				resp, err := client.GetAll()
				if err != nil {
					return err
				}
				return printScripts(cmd, ctx, resp)
			})
		},
	}
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var scope string
	var ignoreCase bool
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Find scripts containing a term",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dispatch.SearchRequest{Scope: scope, IgnoreCase: ignoreCase}
			if len(args) == 1 {
				req.Query = args[0]
			}
			return ctx.withClient(func(client backend) error {
				resp, err := client.Search(req)
				if err != nil {
					return err
				}
				return printScripts(cmd, ctx, resp)
			})
		},
	}
	cmd.Flags().StringVar(&scope, "scope", string(scripts.ScopeAll), "Fields to match: all or title")
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Match without regard to case")
	return cmd
}

func printScripts(cmd *cobra.Command, ctx *commandContext, resp *dispatch.ListResponse) error {
	if ctx.flags.json {
		return writeJSON(cmd, resp)
	}
	out := cmd.OutOrStdout()
	if len(resp.Scripts) == 0 {
		fmt.Fprintln(out, "No scripts found")
		return nil
	}
	fmt.Fprintln(out, scriptTable(resp.Generation, resp.Scripts))
	return nil
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one script in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client backend) error {
				script, err := fetchScript(client, id)
				if err != nil {
					return err
				}
				if ctx.flags.json {
					return writeJSON(cmd, script)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID: %d\n", script.ID)
				if script.Title != nil {
					fmt.Fprintf(out, "Title: %s\n", *script.Title)
				}
				fmt.Fprintf(out, "\n[English]\n%s\n\n[Japanese]\n%s\n", script.EnglishText, script.JapaneseText)
				return nil
			})
		},
	}
}

func fetchScript(client backend, id int64) (*scripts.Script, error) {
	resp, err := client.Get(id)
	if err != nil {
		return nil, err
	}
	if resp.Script == nil {
		return nil, fmt.Errorf("script %d not found", id)
	}
	return resp.Script, nil
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var texts textFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a stored script",
		Long: "Change fields of a stored script. Fields whose flag is omitted keep " +
			"their current value.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client backend) error {
				current, err := fetchScript(client, id)
				if err != nil {
					return err
				}
				req := dispatch.UpdateRequest{
					ID:           id,
					Title:        current.Title,
					EnglishText:  &current.EnglishText,
					JapaneseText: &current.JapaneseText,
				}
				if v := changedValue(cmd, "title", texts.title); v != nil {
					req.Title = v
				}
				if v := changedValue(cmd, "english", texts.english); v != nil {
					req.EnglishText = v
				}
				if v := changedValue(cmd, "japanese", texts.japanese); v != nil {
					req.JapaneseText = v
				}
				resp, err := client.Update(req)
				if err != nil {
					return err
				}
				if ctx.flags.json {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d script(s)\n", resp.Affected)
				return nil
			})
		},
	}
	texts.register(cmd)
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a stored script",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client backend) error {
				resp, err := client.Delete(id)
				if err != nil {
					return err
				}
				if ctx.flags.json {
					return writeJSON(cmd, resp)
				}
				if resp.Affected == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Script %d not found\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted script %d\n", id)
				return nil
			})
		},
	}
}
