package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
)

// fetchFlags are the read options shared by query and fetch.
type fetchFlags struct {
	filters          []string
	sort             []string
	page             int
	pageSize         int
	withCount        bool
	limit            int
	populate         []string
	populateFile     string
	publicationState string
	indexed          bool
}

func (f *fetchFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringArrayVar(&f.filters, "filter", nil, "Filter as field=value or field[$op]=value (repeatable)")
	fl.StringArrayVar(&f.sort, "sort", nil, "Sort directive, e.g. startDate:desc (repeatable)")
	fl.IntVar(&f.page, "page", 0, "Page number")
	fl.IntVar(&f.pageSize, "page-size", 0, "Page size")
	fl.BoolVar(&f.withCount, "with-count", false, "Ask for the total count")
	fl.IntVar(&f.limit, "limit", 0, "Offset pagination limit")
	fl.StringArrayVar(&f.populate, "populate", nil, "Relation paths to populate, comma separated, or * (repeatable)")
	fl.StringVar(&f.populateFile, "populate-file", "", "YAML file with a nested populate spec")
	fl.StringVar(&f.publicationState, "publication-state", "", "live or preview")
	fl.BoolVar(&f.indexed, "indexed", false, "Write populate paths as populate[i]=path")
}

// options converts the flags into fetch options.
func (f *fetchFlags) options(cmd *cobra.Command) (strapi.FetchOptions, error) {
	var opts strapi.FetchOptions
	for _, raw := range f.filters {
		filter, err := parseFilter(raw)
		if err != nil {
			return opts, err
		}
		opts.Filters = append(opts.Filters, filter)
	}
	opts.Sort = f.sort

	fl := cmd.Flags()
	if fl.Changed("page") || fl.Changed("page-size") || fl.Changed("with-count") || fl.Changed("limit") {
		opts.Pagination = &strapi.Pagination{}
		if fl.Changed("page") {
			opts.Pagination.Page = strapi.Int(f.page)
		}
		if fl.Changed("page-size") {
			opts.Pagination.PageSize = strapi.Int(f.pageSize)
		}
		if fl.Changed("with-count") {
			opts.Pagination.WithCount = strapi.Bool(f.withCount)
		}
		if fl.Changed("limit") {
			opts.Pagination.Limit = strapi.Int(f.limit)
		}
	}

	switch {
	case f.populateFile != "" && len(f.populate) > 0:
		return opts, fmt.Errorf("--populate and --populate-file are mutually exclusive")
	case f.populateFile != "":
		data, err := os.ReadFile(f.populateFile)
		if err != nil {
			return opts, err
		}
		if opts.Populate, err = strapi.ParsePopulateYAML(data); err != nil {
			return opts, err
		}
	case len(f.populate) > 0:
		var paths []string
		for _, v := range f.populate {
			for _, path := range strings.Split(v, ",") {
				if path = strings.TrimSpace(path); path != "" {
					paths = append(paths, path)
				}
			}
		}
		if len(paths) == 1 {
			opts.Populate = strapi.ParsePopulate(paths[0])
		} else if len(paths) > 1 {
			opts.Populate = strapi.Fields(paths...)
		}
	}

	switch state := strapi.PublicationState(f.publicationState); state {
	case "", strapi.Live, strapi.Preview:
		opts.PublicationState = state
	default:
		return opts, fmt.Errorf("unknown publication state %q", f.publicationState)
	}
	return opts, nil
}

func (f *fetchFlags) style() strapi.PopulateStyle {
	if f.indexed {
		return strapi.PopulateIndexed
	}
	return strapi.PopulateRepeated
}

// parseFilter reads field=value or field[$op]=value.
func parseFilter(raw string) (strapi.Filter, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || key == "" {
		return strapi.Filter{}, fmt.Errorf("filter %q: want field=value", raw)
	}
	filter := strapi.Eq(key, value)
	if open := strings.Index(key, "["); open > 0 && strings.HasSuffix(key, "]") {
		op := key[open+1 : len(key)-1]
		if !strings.HasPrefix(op, "$") || len(op) == 1 {
			return strapi.Filter{}, fmt.Errorf("filter %q: operator must look like $eq", raw)
		}
		filter.Field, filter.Op = key[:open], op
	}
	return filter, nil
}

func newQueryCmd() *cobra.Command {
	var flags fetchFlags
	cmd := &cobra.Command{
		Use:   "query <resource>",
		Short: "Print the request URL for a content API read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			scfg := cfg.Strapi()
			if cmd.Flags().Changed("indexed") {
				scfg.PopulateStyle = flags.style()
			}
			client := strapi.NewClient(scfg, strapi.WithLogger(log))
			fmt.Fprintln(cmd.OutOrStdout(), client.URL(args[0], opts))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newFetchCmd() *cobra.Command {
	var flags fetchFlags
	cmd := &cobra.Command{
		Use:   "fetch <resource>",
		Short: "Read a content API resource and print the JSON response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			scfg := cfg.Strapi()
			if cmd.Flags().Changed("indexed") {
				scfg.PopulateStyle = flags.style()
			}
			client := strapi.NewClient(scfg, strapi.WithLogger(log))
			raw, err := client.FetchRaw(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			var out bytes.Buffer
			if err := json.Indent(&out, raw, "", "  "); err != nil {
				return err
			}
			out.WriteByte('\n')
			_, err = out.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func init() {
	rootCmd.AddCommand(newQueryCmd(), newFetchCmd())
}
