package cli

import (
	"context"
	"os/signal"
	"syscall"

	"product-stream/internal/async"
	"product-stream/internal/model"

	"github.com/spf13/cobra"
)

// EventsOptions holds flags for the events command.
type EventsOptions struct {
	*RootOptions
	Count int
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail the product event stream",
		Long: `Tail the product event stream until interrupted or --count events arrived.

Example:
  productctl events --count 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return tailEvents(ctx, opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 0, "stop after this many events (0 = forever)")

	return cmd
}

func tailEvents(ctx context.Context, opts *EventsOptions, cmd *cobra.Command) error {
	stream := opts.client().Events()
	if opts.Count > 0 {
		stream = async.Take(stream, opts.Count)
	}

	p := newPrinter(opts.RootOptions, cmd.OutOrStdout())
	return stream.Subscribe(ctx, func(ev model.ProductEvent) error {
		return p.event(ev)
	})
}
