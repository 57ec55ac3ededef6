package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/cache"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/config"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/engine"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/insight"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/logger"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/source"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	dataPath   string
	schema     string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "screener",
		Short:        "Screen newly listed growth stocks by required CAGR and fundamentals",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "configs/screener.yaml", "config path")
	root.PersistentFlags().StringVar(&opts.dataPath, "data", "", "CSV file, overrides source settings in config")
	root.PersistentFlags().StringVar(&opts.schema, "schema", "", "column schema version: auto, v1, v2, v3")

	root.AddCommand(newScreenCmd(opts), newBandsCmd(opts), newInspectCmd(opts))
	return root
}

// load 加载配置并初始化日志。未显式指定且默认配置文件不存在时使用默认配置
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configPath)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.Default()
	default:
		return fmt.Errorf("无法加载配置文件: %w", err)
	}

	if o.dataPath != "" {
		cfg.Source.Provider = "csv"
		cfg.Source.CSV = config.CSVConfig{Path: o.dataPath}
	}
	if o.schema != "" {
		cfg.Source.Schema = o.schema
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}
	o.cfg = cfg
	return nil
}

// buildEngine 初始化数据源、缓存和引擎
func (o *options) buildEngine(ctx context.Context) (*engine.Engine, func(), error) {
	src, err := source.New(o.cfg.Source)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if c, ok := src.(io.Closer); ok {
			c.Close()
		}
	}

	narrator, err := insight.NewFromConfig(ctx, o.cfg)
	if err != nil {
		logger.Log.Warnf("LLM 不可用，跳过解读: %v", err)
		narrator = nil
	}

	eng, err := engine.NewEngine(o.cfg, src, cache.New(o.cfg.Source.Schema), narrator)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return eng, cleanup, nil
}

type screenFlags struct {
	cagrMin, cagrMax     string
	minGrossMargin       string
	minRevenue           string
	minOperatingIncome   string
	minOperatingCashFlow string
	columns              []string
	insight              bool
}

func (f *screenFlags) criteria() (engine.Criteria, error) {
	c := engine.Criteria{Columns: f.columns, WithInsight: f.insight}
	for _, p := range []struct {
		name string
		raw  string
		dst  **decimal.Decimal
	}{
		{"cagr-min", f.cagrMin, &c.CAGRMin},
		{"cagr-max", f.cagrMax, &c.CAGRMax},
		{"min-gross-margin", f.minGrossMargin, &c.MinGrossMargin},
		{"min-revenue", f.minRevenue, &c.MinRevenue},
		{"min-operating-income", f.minOperatingIncome, &c.MinOperatingIncome},
		{"min-operating-cf", f.minOperatingCashFlow, &c.MinOperatingCashFlow},
	} {
		if p.raw == "" {
			continue
		}
		v, err := decimal.NewFromString(p.raw)
		if err != nil {
			return c, fmt.Errorf("--%s: %w", p.name, err)
		}
		*p.dst = &v
	}
	return c, nil
}

func newScreenCmd(opts *options) *cobra.Command {
	f := &screenFlags{}
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Filter the company table and print the matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := f.criteria()
			if err != nil {
				return err
			}
			eng, cleanup, err := opts.buildEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := eng.Screen(cmd.Context(), criteria)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.cagrMin, "cagr-min", "", "lower bound of required CAGR (%), default observed minimum")
	fl.StringVar(&f.cagrMax, "cagr-max", "", "upper bound of required CAGR (%), default observed maximum")
	fl.StringVar(&f.minGrossMargin, "min-gross-margin", "", "minimum gross margin (%)")
	fl.StringVar(&f.minRevenue, "min-revenue", "", "minimum revenue (millions)")
	fl.StringVar(&f.minOperatingIncome, "min-operating-income", "", "minimum operating income (millions)")
	fl.StringVar(&f.minOperatingCashFlow, "min-operating-cf", "", "minimum operating cash flow (millions)")
	fl.StringSliceVar(&f.columns, "columns", nil, "display columns, comma separated")
	fl.BoolVar(&f.insight, "insight", false, "ask the configured LLM for a short commentary")
	return cmd
}

func printResult(w io.Writer, res *engine.Result) {
	for _, c := range res.Commentary {
		fmt.Fprintf(w, "[%s] %s=%s: %s\n", strings.ToUpper(string(c.Severity)), c.Field, c.Value, c.Message)
	}
	for _, s := range res.Steps {
		if s.Upper != nil {
			fmt.Fprintf(w, "  %s in [%s, %s] -> %d\n", s.Field, s.Lower, s.Upper, s.Remaining)
		} else {
			fmt.Fprintf(w, "  %s >= %s -> %d\n", s.Field, s.Lower, s.Remaining)
		}
	}
	fmt.Fprintf(w, "Matched companies: %d / %d\n", res.Count, res.Total)

	header := make([]string, 0, len(res.Columns)+1)
	for _, c := range res.Columns {
		header = append(header, c.Label)
	}
	header = append(header, "Tags")

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range res.Rows {
		tags := make([]string, len(r.Tags))
		for i, t := range r.Tags {
			tags[i] = string(t)
		}
		table.Append(append(append([]string{}, r.Cells...), strings.Join(tags, " ")))
	}
	table.Render()

	if res.Insight != "" {
		fmt.Fprintf(w, "\n%s\n", res.Insight)
	}
}

func newBandsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bands",
		Short: "Print the severity band tables in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			bands, err := engine.BandsFromConfig(opts.cfg.Bands)
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Field", "Range", "Severity", "Message"})
			table.SetAutoFormatHeaders(false)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, f := range engine.SliderFields {
				b := bands[f]
				for i, l := range b.Levels {
					table.Append([]string{string(f), bandRange(b.Boundaries, i), string(l.Severity), l.Message})
				}
			}
			table.Render()
			return nil
		},
	}
}

func bandRange(bounds []decimal.Decimal, i int) string {
	switch {
	case len(bounds) == 0:
		return "any"
	case i == 0:
		return "<= " + bounds[0].String()
	case i == len(bounds):
		return "> " + bounds[i-1].String()
	default:
		return fmt.Sprintf("(%s, %s]", bounds[i-1], bounds[i])
	}
}

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Load the data source and print schema, row counts and value ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := opts.buildEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := eng.Describe(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "source:  %s\nschema:  %s\nrows:    %d\ndropped: %d\n", s.Source, s.Schema, s.Rows, s.Dropped)

			table := tablewriter.NewWriter(w)
			table.SetHeader([]string{"Field", "Min", "Max"})
			table.SetAutoFormatHeaders(false)
			for _, r := range s.Ranges {
				table.Append([]string{string(r.Field), r.Min.String(), r.Max.String()})
			}
			table.Render()
			return nil
		},
	}
}
