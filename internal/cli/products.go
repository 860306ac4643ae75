package cli

import (
	"errors"
	"fmt"

	"product-stream/internal/client"
	"product-stream/internal/model"

	"github.com/spf13/cobra"
)

// productFlags holds the body flags shared by create and update.
type productFlags struct {
	Name  string
	Price float64
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Name, "name", "", "product name")
	cmd.Flags().Float64Var(&f.Price, "price", 0, "product price")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
}

func (f *productFlags) product() model.Product {
	return model.Product{Name: f.Name, Price: f.Price}
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := opts.client().List(cmd.Context())
			if err != nil {
				return err
			}
			return newPrinter(opts, cmd.OutOrStdout()).products(products)
		},
	}
}

// NewGetCommand creates the get command.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := opts.client().Get(cmd.Context(), args[0])
			if err != nil {
				return notFound(err, args[0])
			}
			return newPrinter(opts, cmd.OutOrStdout()).product(product)
		},
	}
}

// NewCreateCommand creates the create command.
func NewCreateCommand(opts *RootOptions) *cobra.Command {
	flags := &productFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Long: `Create a product. The server assigns its ID.

Example:
  productctl create --name "Black Tea" --price 1.99`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := opts.client().Create(cmd.Context(), flags.product())
			if err != nil {
				return err
			}
			return newPrinter(opts, cmd.OutOrStdout()).product(product)
		},
	}
	flags.register(cmd)

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	flags := &productFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the name and price of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := opts.client().Update(cmd.Context(), args[0], flags.product())
			if err != nil {
				return notFound(err, args[0])
			}
			return newPrinter(opts, cmd.OutOrStdout()).product(product)
		},
	}
	flags.register(cmd)

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client().Delete(cmd.Context(), args[0]); err != nil {
				return notFound(err, args[0])
			}
			return newPrinter(opts, cmd.OutOrStdout()).message("deleted %s", args[0])
		},
	}
}

// NewDeleteAllCommand creates the delete-all command.
func NewDeleteAllCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client().DeleteAll(cmd.Context()); err != nil {
				return err
			}
			return newPrinter(opts, cmd.OutOrStdout()).message("deleted all products")
		},
	}
}

func notFound(err error, id string) error {
	if errors.Is(err, client.ErrNotFound) {
		return fmt.Errorf("product %s not found", id)
	}
	return err
}
