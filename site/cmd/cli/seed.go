package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/Keenwby/polaris-youth-platform/site/internal/seed"
)

var errNoToken = errors.New("a CMS API token is required: create a full-access token under Settings > API Tokens in the admin panel and set POLARIS_CMS_TOKEN or --token")

func loadFixtures(path string) (*seed.Fixtures, error) {
	if path == "" {
		return seed.DefaultFixtures()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.ParseFixtures(data)
}

func newSeedCmd() *cobra.Command {
	var (
		file     string
		workers  int
		rps      float64
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load initial activities, pages and site settings into the CMS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := loadFixtures(file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if validate {
				v, err := seed.NewValidator()
				if err != nil {
					return err
				}
				if err := v.ValidateFixtures(fixtures); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(out, "fixtures valid: %d activities\n", len(fixtures.Activities))
				return nil
			}
			if cfg.CMS.Token == "" {
				return errNoToken
			}

			seeder, err := seed.New(newCMS(), seed.Options{Workers: workers, Rate: rate.Limit(rps), Logger: log})
			if err != nil {
				return err
			}
			report, err := seeder.Run(cmd.Context(), fixtures)
			if report != nil {
				printReport(out, report)
			}
			if err != nil {
				return err
			}
			if err := report.Err(); err != nil {
				return fmt.Errorf("seed finished with %d failures", len(report.Failed))
			}
			color.New(color.FgGreen, color.Bold).Fprintf(out, "seed complete, visit %s\n", cfg.Site.URL)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&file, "file", "", "YAML fixtures file (default: built-in fixtures)")
	fl.IntVar(&workers, "workers", 4, "Concurrent activity writes")
	fl.Float64Var(&rps, "rate", 10, "Requests per second")
	fl.BoolVar(&validate, "validate", false, "Only validate the fixtures")
	return cmd
}

func printReport(w io.Writer, r *seed.Report) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	for _, slug := range r.Created {
		ok.Fprintf(w, "created activity %s\n", slug)
	}
	for _, name := range r.Updated {
		ok.Fprintf(w, "updated %s\n", name)
	}
	if err := r.Err(); err != nil {
		bad.Fprintln(w, err)
	}
}

func init() {
	rootCmd.AddCommand(newSeedCmd())
}
