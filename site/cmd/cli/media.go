package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Keenwby/polaris-youth-platform/site/internal/services"
	"github.com/Keenwby/polaris-youth-platform/site/internal/storage"
)

const mediaPageSize = 100

func newMediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Manage the media mirror",
	}
	cmd.AddCommand(newMediaSyncCmd())
	return cmd
}

func newMediaSyncCmd() *cobra.Command {
	var (
		workers int
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy every image referenced by site content into object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cms := newCMS()
			set, err := collectMedia(ctx, services.NewContentService(cms, log))
			if err != nil {
				return err
			}
			urls := set.URLs()
			out := cmd.OutOrStdout()
			if dryRun {
				for _, u := range urls {
					fmt.Fprintln(out, u)
				}
				return nil
			}

			store, err := storage.NewClient(storage.Config{
				Endpoint:        cfg.Media.Endpoint,
				AccessKeyID:     cfg.Media.AccessKey,
				SecretAccessKey: cfg.Media.SecretKey,
				UseSSL:          cfg.Media.UseSSL,
				Bucket:          cfg.Media.Bucket,
			})
			if err != nil {
				return err
			}
			if !store.Enabled() {
				return fmt.Errorf("%w: set POLARIS_MEDIA_ENDPOINT", storage.ErrDisabled)
			}

			mirror := storage.NewMirror(store, cms.Config().MediaURL, nil, workers, log)
			res, err := mirror.Sync(ctx, urls)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(out, "%d uploaded, %d unchanged\n", len(res.Uploaded), len(res.Skipped))
			if len(res.Failed) > 0 {
				bad := color.New(color.FgRed)
				for u, ferr := range res.Failed {
					bad.Fprintf(out, "failed %s: %v\n", u, ferr)
				}
				return fmt.Errorf("%d media files failed to copy", len(res.Failed))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent copies")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only list the media urls")
	return cmd
}

// collectMedia gathers the media urls of every page and activity. Missing
// single types are skipped.
func collectMedia(ctx context.Context, cs *services.ContentService) (*storage.MediaSet, error) {
	set := storage.NewMediaSet()

	if home, err := cs.HomePage(ctx); err != nil {
		log.Warn("home page skipped", "error", err)
	} else {
		set.AddHomePage(home)
	}
	if about, err := cs.AboutPage(ctx); err != nil {
		log.Warn("about page skipped", "error", err)
	} else {
		set.AddAboutPage(about)
	}
	if settings, err := cs.SiteSettings(ctx); err != nil {
		log.Warn("site settings skipped", "error", err)
	} else {
		set.AddSiteSettings(settings)
	}

	for page := 1; ; page++ {
		activities, meta, err := cs.Activities(ctx, services.ActivityQuery{Page: page, PageSize: mediaPageSize})
		if err != nil {
			return nil, err
		}
		set.AddActivities(activities...)
		if meta == nil || page >= meta.PageCount || len(activities) == 0 {
			break
		}
	}
	return set, nil
}

func init() {
	rootCmd.AddCommand(newMediaCmd())
}
