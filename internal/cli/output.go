package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"product-stream/internal/model"
)

// printer writes command results as text or JSON.
type printer struct {
	format string
	w      io.Writer
}

func newPrinter(opts *RootOptions, w io.Writer) *printer {
	return &printer{format: opts.Format, w: w}
}

func (p *printer) products(products []model.Product) error {
	if p.format == "json" {
		return p.json(products)
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE")
	for _, product := range products {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\n", product.ID, product.Name, product.Price)
	}
	return tw.Flush()
}

func (p *printer) product(product *model.Product) error {
	if p.format == "json" {
		return p.json(product)
	}
	_, err := fmt.Fprintf(p.w, "%s  %s  %.2f\n", product.ID, product.Name, product.Price)
	return err
}

func (p *printer) event(ev model.ProductEvent) error {
	if p.format == "json" {
		return p.json(ev)
	}
	_, err := fmt.Fprintf(p.w, "#%d %s\n", ev.EventID, ev.Message)
	return err
}

func (p *printer) message(format string, args ...interface{}) error {
	if p.format == "json" {
		return nil
	}
	_, err := fmt.Fprintf(p.w, format+"\n", args...)
	return err
}

func (p *printer) json(v interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
