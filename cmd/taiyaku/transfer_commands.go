package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"taiyaku/internal/dispatch"
	"taiyaku/internal/transfer"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var texts textFlags
	var outPath string
	var format string
	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Write a script to a txt, yaml, or pdf file",
		Long: "Write a stored script (by id) or the given texts to a file. Without " +
			"--out an interactive terminal is asked for a destination; otherwise the " +
			"file goes to export.default_dir under a name derived from the title.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withClient(func(client backend) error {
				req := dispatch.ExportRequest{Format: format}
				if len(args) == 1 {
					id, err := parseID(args[0])
					if err != nil {
						return err
					}
					script, err := fetchScript(client, id)
					if err != nil {
						return err
					}
					req.Title = script.Title
					req.EnglishText = script.EnglishText
					req.JapaneseText = script.JapaneseText
				}
				if v := changedValue(cmd, "title", texts.title); v != nil {
					req.Title = v
				}
				if cmd.Flags().Changed("english") {
					req.EnglishText = texts.english
				}
				if cmd.Flags().Changed("japanese") {
					req.JapaneseText = texts.japanese
				}

				dest := outPath
				if !cmd.Flags().Changed("out") {
					if p := newPrompter(cmd); p != nil {
						if dest, err = p.ask("Export to"); err != nil {
							return err
						}
					} else if dest, err = defaultExportDir(cfg.Export.DefaultDir); err != nil {
						return err
					}
				}
				if dest != "" {
					if dest, err = filepath.Abs(dest); err != nil {
						return fmt.Errorf("resolve export path: %w", err)
					}
				}
				req.Path = dest

				resp, err := client.Export(req)
				if err != nil {
					return err
				}
				if ctx.flags.json {
					return writeJSON(cmd, resp)
				}
				return reportTransfer(cmd, resp.Success, resp.Cancelled, resp.Error, "Exported to "+resp.FilePath)
			})
		},
	}
	texts.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file or directory")
	cmd.Flags().StringVarP(&format, "format", "f", string(transfer.FormatText), "Output format: txt, yaml, or pdf")
	return cmd
}

// defaultExportDir is export.default_dir, created on demand, or the working
// directory when unset.
func defaultExportDir(configured string) (string, error) {
	if configured == "" {
		return os.Getwd()
	}
	if err := os.MkdirAll(configured, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	return configured, nil
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var englishPath, japanesePath, title string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a script read from an English file and a Japanese file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if !cmd.Flags().Changed("english") {
				if englishPath, err = p.ask("English file"); err != nil {
					return err
				}
			}
			if englishPath != "" && !cmd.Flags().Changed("japanese") {
				if japanesePath, err = p.ask("Japanese file"); err != nil {
					return err
				}
			}
			req := dispatch.ImportRequest{Title: changedValue(cmd, "title", title)}
			if req.EnglishPath, err = absOrEmpty(englishPath); err != nil {
				return err
			}
			if req.JapanesePath, err = absOrEmpty(japanesePath); err != nil {
				return err
			}

			return ctx.withClient(func(client backend) error {
				resp, err := client.Import(req)
				if err != nil {
					return err
				}
				if ctx.flags.json {
					return writeJSON(cmd, resp)
				}
				return reportTransfer(cmd, resp.Success, resp.Cancelled, resp.Error, fmt.Sprintf("Imported script %d", resp.ID))
			})
		},
	}
	cmd.Flags().StringVarP(&englishPath, "english", "e", "", "File holding the English text")
	cmd.Flags().StringVarP(&japanesePath, "japanese", "j", "", "File holding the Japanese text")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Title (defaults to the English file name)")
	return cmd
}

func absOrEmpty(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

func reportTransfer(cmd *cobra.Command, success, cancelled bool, message, done string) error {
	switch {
	case success:
		fmt.Fprintln(cmd.OutOrStdout(), done)
		return nil
	case cancelled:
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
		return nil
	default:
		return errors.New(message)
	}
}
