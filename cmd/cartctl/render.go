package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Skotchmaster/garden_shop/pkg/cartstate"
)

// toaster prints notifications the way a storefront shows toasts.
type toaster struct {
	w io.Writer
}

func (t toaster) Notify(_ context.Context, n cartstate.Notification) {
	mark := "ok"
	switch n.Level {
	case cartstate.LevelInfo:
		mark = "--"
	case cartstate.LevelError:
		mark = "!!"
	}
	fmt.Fprintf(t.w, "[%s] %s\n", mark, n.Message)
}

func render(w io.Writer, s cartstate.State) {
	if !s.Loaded() {
		return
	}
	if len(s.Items) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tPRODUCT\tQTY\tPRICE\tTOTAL")
	for _, it := range s.Items {
		name, price, total := fmt.Sprintf("#%d", it.ProductID), "-", "-"
		if it.Product != nil {
			if it.Product.Name != "" {
				name = it.Product.Name
			}
			price = money(it.Product.Price)
			total = money(it.Product.Price * int64(it.Quantity))
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", it.ID, name, it.Quantity, price, total)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "Items: %d  Subtotal: %s\n", s.ItemCount(), money(s.Subtotal()))
}

func money(minor int64) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
