package main

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/api"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/batch"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/config"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/extractor"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/logger"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/models"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/parser"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/registry"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/writer"
)

const version = "1.0.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "extractprocessor",
		Short:   "Statement import and categorization for the expenses dashboard",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	root.AddCommand(newProcessCommand(), newServeCommand())
	return root
}

func newProcessCommand() *cobra.Command {
	cfg := config.Load()

	var (
		formatFlag   string
		registryFlag string
		outputFlag   string
	)

	cmd := &cobra.Command{
		Use:   "process [flags] <statement> [statement ...]",
		Short: "Parse and categorize statement files, writing results as CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readFiles(args)
			if err != nil {
				return err
			}

			format, err := resolveFormat(formatFlag, files[0])
			if err != nil {
				return err
			}
			fmt.Printf("Format: %s\n", format)

			log := logger.New(cfg.LogLevel)
			shops := &registry.FileProvider{Path: registryFlag}
			o := batch.New(shops, log)

			ctx := cmd.Context()
			switch format {
			case models.FormatIberia:
				res, err := o.ProcessIberia(ctx, files)
				if err != nil {
					return err
				}
				fmt.Printf("Transactions: %d\n", len(res.Transactions))
				fmt.Printf("Calculated total: %s\n", res.CalculatedTotal.StringFixed(2))
				fmt.Printf("Declared total:   %s\n", res.ExpectedTotal.StringFixed(2))
				fmt.Printf("Totals match: %v\n", res.TotalsMatch)
				if outputFlag != "" {
					if err := writer.WriteIberiaFile(outputFlag, res); err != nil {
						return err
					}
					fmt.Printf("Output: %s\n", outputFlag)
				}
			case models.FormatING:
				res, err := o.ProcessING(ctx, files)
				if err != nil {
					return err
				}
				fmt.Printf("Transactions: %d\n", len(res.Transactions))
				fmt.Printf("Calculated total: %s\n", res.CalculatedTotal.StringFixed(2))
				if outputFlag != "" {
					if err := writer.WriteINGFile(outputFlag, res); err != nil {
						return err
					}
					fmt.Printf("Output: %s\n", outputFlag)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "auto", "Statement format: iberia, ing, or auto")
	cmd.Flags().StringVar(&registryFlag, "registry", cfg.RegistryPath, "Shop registry file (.yaml or .csv)")
	cmd.Flags().StringVar(&outputFlag, "output", "", "Output CSV file path (omit for summary only)")
	return cmd
}

func newServeCommand() *cobra.Command {
	cfg := config.Load()

	var portFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the statement import HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logger.New(cfg.LogLevel)
			h := &api.Handler{
				Shops:   &registry.FileProvider{Path: cfg.RegistryPath},
				Log:     log,
				Version: version,
			}

			app := fiber.New(fiber.Config{
				AppName:   "extractprocessor v" + version,
				BodyLimit: 32 << 20,
			})
			app.Use(recover.New())
			h.Register(app)

			log.Info().Str("port", portFlag).Msg("listening")
			return app.Listen(":" + portFlag)
		},
	}

	cmd.Flags().StringVar(&portFlag, "port", cfg.Port, "HTTP listen port")
	return cmd
}

// readFiles loads every statement fully into memory; parsing is a
// single-pass transformation over the whole buffer.
func readFiles(paths []string) ([]batch.File, error) {
	files := make([]batch.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, batch.File{Name: path, Data: data})
	}
	return files, nil
}

// resolveFormat honors an explicit --format and otherwise sniffs the first
// file's grid for card markers or an ING header row.
func resolveFormat(flag string, first batch.File) (models.Format, error) {
	if flag != "" && flag != "auto" {
		return parser.ParseFormat(flag)
	}
	grid, err := extractor.ExtractGrid(first.Name, first.Data)
	if err != nil {
		return "", err
	}
	return parser.Detect(grid)
}
