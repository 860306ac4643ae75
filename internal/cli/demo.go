package cli

import (
	"fmt"

	"product-stream/internal/model"

	"github.com/spf13/cobra"
)

// NewDemoCommand creates the demo command.
func NewDemoCommand(opts *RootOptions) *cobra.Command {
	events := &EventsOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through every API operation",
		Long: `Create a product, list, update it, delete it, list again and tail a few events.

Example:
  productctl demo --events 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := opts.client()
			p := newPrinter(opts, cmd.OutOrStdout())

			created, err := c.Create(ctx, model.Product{Name: "Black Tea", Price: 1.99})
			if err != nil {
				return err
			}
			_ = p.message("created:")
			if err := p.product(created); err != nil {
				return err
			}

			products, err := c.List(ctx)
			if err != nil {
				return err
			}
			_ = p.message("catalogue:")
			if err := p.products(products); err != nil {
				return err
			}
			if len(products) == 0 {
				return fmt.Errorf("catalogue is empty after create")
			}

			first := products[0]
			updated, err := c.Update(ctx, first.ID, model.Product{Name: "White Tea", Price: 0.99})
			if err != nil {
				return err
			}
			_ = p.message("updated:")
			if err := p.product(updated); err != nil {
				return err
			}

			if err := c.Delete(ctx, first.ID); err != nil {
				return err
			}
			_ = p.message("deleted %s", first.ID)

			products, err = c.List(ctx)
			if err != nil {
				return err
			}
			_ = p.message("catalogue:")
			if err := p.products(products); err != nil {
				return err
			}

			if events.Count <= 0 {
				return nil
			}
			_ = p.message("events:")
			return tailEvents(ctx, events, cmd)
		},
	}

	cmd.Flags().IntVar(&events.Count, "events", 3, "number of events to tail at the end (0 = skip)")

	return cmd
}
