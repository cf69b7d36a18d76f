package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/hupe1980/nearset"
	"github.com/hupe1980/nearset/progress"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	universePath string
	logLevel     string
	timeout      time.Duration
	showProgress bool
	epsilon      float64
}

// app holds the state shared by all subcommands of one invocation.
type app struct {
	opts *rootOptions
	sys  *nearset.System[[]float64]
	out  io.Writer
	errw io.Writer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{opts: opts}

	rootCmd := &cobra.Command{
		Use:           "nearset",
		Short:         "Compute near-set relations over a universe of feature rows",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.out = cmd.OutOrStdout()
			a.errw = cmd.ErrOrStderr()

			var level slog.Level
			if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}

			u, err := LoadUniverse(opts.universePath)
			if err != nil {
				return err
			}
			a.sys, err = u.System(nearset.WithLogger(nearset.NewLogger(
				slog.NewTextHandler(a.errw, &slog.HandlerOptions{Level: level}),
			)))
			return err
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.universePath, "universe", "u", "universe.yaml", "Path to the universe YAML file")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.DurationVar(&opts.timeout, "timeout", 0, "Cancel the operation after this duration (0 = no limit)")
	pf.BoolVar(&opts.showProgress, "progress", false, "Print progress to stderr")
	pf.Float64Var(&opts.epsilon, "epsilon", 0, "Tolerance for hybrid operations (0 = exact)")

	rootCmd.AddCommand(
		a.normCmd(),
		a.describeCmd(),
		a.neighbourhoodCmd(),
		a.intersectionCmd(),
		a.differenceCmd(),
		a.complementCmd(),
		a.classesCmd(),
		a.nearnessCmd(),
	)
	return rootCmd
}

func (a *app) normCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "norm",
		Short: "Print the largest possible distance between two descriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.print(map[string]any{
				"dimensions": a.sys.NumProbeFuncs(),
				"norm":       a.sys.Norm(),
			})
		},
	}
}

type describedObject struct {
	Index       int       `json:"index"`
	Description []float64 `json:"description"`
}

func (a *app) describeCmd() *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the descriptions of objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			indices, err := a.region(region)
			if err != nil {
				return err
			}
			out := make([]describedObject, 0, len(indices))
			for _, i := range indices {
				d, err := a.sys.Description(i)
				if err != nil {
					return err
				}
				out = append(out, describedObject{Index: i, Description: d.Values()})
			}
			return a.print(out)
		},
	}
	cmd.Flags().StringVar(&region, "region", "all", "Objects to describe")
	return cmd
}

func (a *app) neighbourhoodCmd() *cobra.Command {
	var x int
	var region string
	cmd := &cobra.Command{
		Use:     "neighbourhood",
		Aliases: []string{"neighborhood"},
		Short:   "Objects of a region whose description matches object x",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.region(region)
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, o func(*nearset.CallOptions)) (any, error) {
				return a.sys.HybridNeighbourhood(ctx, x, r, a.opts.epsilon, o)
			})
		},
	}
	cmd.Flags().IntVarP(&x, "x", "x", 0, "Index of the reference object")
	cmd.Flags().StringVar(&region, "region", "all", "Region to search")
	return cmd
}

func (a *app) intersectionCmd() *cobra.Command {
	return a.pairCmd("intersection", "Objects of A and B whose description occurs in both",
		func(ctx context.Context, ra, rb []int, o func(*nearset.CallOptions)) (any, error) {
			return a.sys.HybridIntersection(ctx, ra, rb, a.opts.epsilon, o)
		})
}

func (a *app) differenceCmd() *cobra.Command {
	return a.pairCmd("difference", "Objects of A whose description does not occur in B",
		func(ctx context.Context, ra, rb []int, o func(*nearset.CallOptions)) (any, error) {
			return a.sys.HybridDifference(ctx, ra, rb, a.opts.epsilon, o)
		})
}

func (a *app) nearnessCmd() *cobra.Command {
	return a.pairCmd("nearness", "Nearness measure of regions A and B",
		func(ctx context.Context, ra, rb []int, o func(*nearset.CallOptions)) (any, error) {
			return a.sys.NearnessMeasure(ctx, ra, rb, o)
		})
}

func (a *app) pairCmd(use, short string, fn func(ctx context.Context, ra, rb []int, o func(*nearset.CallOptions)) (any, error)) *cobra.Command {
	var regionA, regionB string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ra, err := a.region(regionA)
			if err != nil {
				return err
			}
			rb, err := a.region(regionB)
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, o func(*nearset.CallOptions)) (any, error) {
				return fn(ctx, ra, rb, o)
			})
		},
	}
	cmd.Flags().StringVar(&regionA, "a", "", "Region A")
	cmd.Flags().StringVar(&regionB, "b", "", "Region B")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

func (a *app) complementCmd() *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:   "complement",
		Short: "Objects whose description does not occur in the region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.region(region)
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, o func(*nearset.CallOptions)) (any, error) {
				return a.sys.HybridComplement(ctx, r, a.opts.epsilon, o)
			})
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "Region")
	_ = cmd.MarkFlagRequired("region")
	return cmd
}

type classOutput struct {
	Description []float64 `json:"description"`
	Indices     []int     `json:"indices"`
}

func (a *app) classesCmd() *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Equivalence classes of the universe represented in the region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.region(region)
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, o func(*nearset.CallOptions)) (any, error) {
				classes, err := a.sys.EquivalenceClasses(ctx, r, o)
				if err != nil {
					return nil, err
				}
				out := make([]classOutput, len(classes))
				for i, c := range classes {
					out[i] = classOutput{Description: c.Description.Values(), Indices: c.Indices}
				}
				return out, nil
			})
		},
	}
	cmd.Flags().StringVar(&region, "region", "all", "Region")
	return cmd
}

// run executes op with the configured timeout and progress output.
func (a *app) run(op func(ctx context.Context, o func(*nearset.CallOptions)) (any, error)) error {
	ctx := context.Background()
	if a.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.timeout)
		defer cancel()
	}

	var sub progress.Subscriber = progress.Noop{}
	if a.opts.showProgress {
		sub = progress.NewFlag(func(f float64) {
			fmt.Fprintf(a.errw, "\rprogress %3.0f%%", f*100)
			if f >= 1 {
				fmt.Fprintln(a.errw)
			}
		})
	}

	res, err := op(ctx, nearset.WithSubscriber(sub))
	if err != nil {
		return err
	}
	return a.print(res)
}

func (a *app) print(v any) error {
	b, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}

// region parses "all" or a comma-separated list of indices and ranges
// such as "0,2,5-9".
func (a *app) region(expr string) ([]int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "all" {
		return a.sys.Indices(), nil
	}
	return parseRegion(expr)
}

func parseRegion(expr string) ([]int, error) {
	out := []int{}
	if expr == "" {
		return out, nil
	}
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("invalid region element %q", part)
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(hi); err != nil || end < start {
				return nil, fmt.Errorf("invalid region range %q", part)
			}
		}
		for i := start; i <= end; i++ {
			out = append(out, i)
		}
	}
	return out, nil
}
