package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Keenwby/polaris-youth-platform/site/internal/content"
	"github.com/Keenwby/polaris-youth-platform/site/internal/render"
	"github.com/Keenwby/polaris-youth-platform/site/internal/services"
)

func newActivitiesCmd() *cobra.Command {
	var (
		category string
		q        services.ActivityQuery
	)
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List activities as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Category = content.Category(category)
			if q.Category != "" && !q.Category.Valid() {
				return fmt.Errorf("unknown category %q", category)
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			cs := services.NewContentService(newCMS(), log)
			activities, meta, err := cs.Activities(cmd.Context(), q)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Title", "Slug", "Category", "Start", "Location", "Capacity", "Featured"})
			for _, a := range activities {
				start := ""
				if a.StartDate != nil {
					start = render.FormatDateShortTime(*a.StartDate, loc)
				}
				capacity := "-"
				if seats := a.Seats(); seats > 0 {
					capacity = strconv.Itoa(seats)
				}
				featured := ""
				if a.Featured {
					featured = color.YellowString("★")
				}
				table.Append([]string{a.Title, a.Slug, a.Category.Label(), start, a.Location, capacity, featured})
			}
			table.Render()

			if meta != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d, %d total\n", meta.Page, meta.PageCount, meta.Total)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&category, "category", "", "Only this category (workshop, seminar, community, project, other)")
	fl.BoolVar(&q.FeaturedOnly, "featured", false, "Only featured activities")
	fl.IntVar(&q.Page, "page", 0, "Page number")
	fl.IntVar(&q.PageSize, "page-size", 0, "Page size")
	fl.StringArrayVar(&q.Sort, "sort", nil, "Sort directive (repeatable); default startDate:desc")
	return cmd
}

func init() {
	rootCmd.AddCommand(newActivitiesCmd())
}
