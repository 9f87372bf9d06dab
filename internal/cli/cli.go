// Package cli implements allocctl, the operator command line for allocation runs.
//
//	allocctl migrate                 create tables if missing
//	allocctl run [--date D]          allocate pending orders for D
//	allocctl summary --date D        print the daily summary
//	allocctl assignments --date D    list assignments of D
//	allocctl reset --date D          undo the assignments of D
//	allocctl checkout-all            mark every agent as checked out
//	allocctl order-status ID STATUS  set the status of one order
//
// D defaults to today in the configured schedule time zone.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
)

// Backend is what the commands operate on.
type Backend interface {
	Migrate(ctx context.Context) error
	Run(ctx context.Context, day time.Time) (domain.RunResult, error)
	Summary(ctx context.Context, day time.Time) (domain.Summary, error)
	Assignments(ctx context.Context, day time.Time) ([]domain.Assignment, error)
	Reset(ctx context.Context, day time.Time) (domain.ResetResult, error)
	CheckOutAll(ctx context.Context) (int64, error)
	SetOrderStatus(ctx context.Context, id domain.OrderID, status domain.OrderStatus) (bool, error)
	Today() time.Time
	Close()
}

// Opener connects a Backend. It is called once per command.
type Opener func(ctx context.Context) (Backend, error)

type options struct {
	date   string
	format string
}

// BuildCLI returns the root command writing to out.
func BuildCLI(open Opener, out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "allocctl",
		Short:         "Operate daily delivery order allocation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&opts.format, "output", "o", "text", "output format: text or yaml")

	root.AddCommand(
		buildMigrateCommand(open),
		buildRunCommand(open, opts),
		buildSummaryCommand(open, opts),
		buildAssignmentsCommand(open, opts),
		buildResetCommand(open, opts),
		buildCheckoutAllCommand(open),
		buildOrderStatusCommand(open),
	)
	return root
}

func withBackend(cmd *cobra.Command, open Opener, fn func(ctx context.Context, b Backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := open(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer b.Close()
	return fn(ctx, b)
}

func addDateFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "day in YYYY-MM-DD, defaults to today")
}

func (o *options) day(b Backend) (time.Time, error) {
	if o.date == "" {
		return domain.Day(b.Today()), nil
	}
	return domain.ParseDay(o.date)
}

func buildMigrateCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the allocation tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b Backend) error {
				if err := b.Migrate(ctx); err != nil {
					return err
				}
				cmd.Println("schema is up to date")
				return nil
			})
		},
	}
}

func buildRunCommand(open Opener, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Allocate pending orders to checked-in agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b Backend) error {
				day, err := opts.day(b)
				if err != nil {
					return err
				}
				res, err := b.Run(ctx, day)
				if err != nil && !errors.Is(err, apperr.ErrNoAgentsAvailable) {
					return err
				}
				return render(cmd.OutOrStdout(), opts.format, newRunView(res))
			})
		},
	}
	addDateFlag(cmd, opts)
	return cmd
}

func buildSummaryCommand(open Opener, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the summary of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b Backend) error {
				day, err := opts.day(b)
				if err != nil {
					return err
				}
				s, err := b.Summary(ctx, day)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), opts.format, newSummaryView(s))
			})
		},
	}
	addDateFlag(cmd, opts)
	return cmd
}

func buildAssignmentsCommand(open Opener, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "List the assignments of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b Backend) error {
				day, err := opts.day(b)
				if err != nil {
					return err
				}
				list, err := b.Assignments(ctx, day)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), opts.format, newAssignmentsView(day, list))
			})
		},
	}
	addDateFlag(cmd, opts)
	return cmd
}

func buildResetCommand(open Opener, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the assignments of a day and return their orders to pending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.date == "" {
				return fmt.Errorf("--date is required")
			}
			return withBackend(cmd, open, func(ctx context.Context, b Backend) error {
				day, err := opts.day(b)
				if err != nil {
					return err
				}
				res, err := b.Reset(ctx, day)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), opts.format, resetView{
					Date:        day.Format(domain.DateLayout),
					Assignments: res.Assignments,
					Released:    res.Released,
					Undeferred:  res.Undeferred,
				})
			})
		},
	}
	addDateFlag(cmd, opts)
	return cmd
}

func buildCheckoutAllCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout-all",
		Short: "Mark every agent as checked out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b Backend) error {
				n, err := b.CheckOutAll(ctx)
				if err != nil {
					return err
				}
				cmd.Printf("%d agents checked out\n", n)
				return nil
			})
		},
	}
}

func buildOrderStatusCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "order-status ORDER_ID STATUS",
		Short: "Set the status of one order (pending, assigned, deferred, delivered)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.OrderID(args[0])
			status := domain.OrderStatus(args[1])
			if !status.Valid() {
				return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalid, args[1])
			}
			return withBackend(cmd, open, func(ctx context.Context, b Backend) error {
				ok, err := b.SetOrderStatus(ctx, id, status)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
				}
				cmd.Printf("order %s is now %s\n", id, status)
				return nil
			})
		},
	}
}

func render(w io.Writer, format string, v textWriter) error {
	switch format {
	case "", "text":
		return v.writeText(w)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
