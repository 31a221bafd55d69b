package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/bobmcallan/folio/internal/clients/folio"
	"github.com/bobmcallan/folio/internal/valuation"
)

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printHoldings(w io.Writer, holdings []folio.Holding, summary *folio.Summary) {
	if len(holdings) == 0 {
		fmt.Fprintln(w, "No holdings yet. Add one with 'folio add'.")
		return
	}

	cur := summary.Currency
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ID\tSYMBOL\tQTY\tPURCHASE\tCURRENT\tVALUE\tGAIN/LOSS\tGAIN %\tWEIGHT\t")
	for _, h := range holdings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			shortID(h.ID),
			h.Symbol,
			strconv.FormatInt(h.Quantity, 10),
			valuation.FormatMoney(h.PurchasePrice, cur),
			valuation.FormatMoney(h.CurrentPrice, cur),
			valuation.FormatMoney(h.CurrentValue, cur),
			valuation.FormatSignedMoney(h.GainLoss, cur),
			valuation.FormatPercent(h.GainLossPercent),
			fmt.Sprintf("%.1f%%", h.Weight),
		)
	}
	tw.Flush()
	fmt.Fprintln(w)
	printSummary(w, summary)
}

func printSummary(w io.Writer, s *folio.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Holdings\t%d\n", s.TotalHoldings)
	fmt.Fprintf(tw, "Total invested\t%s\n", s.Display.TotalInvested)
	fmt.Fprintf(tw, "Total value\t%s\n", s.Display.TotalValue)
	fmt.Fprintf(tw, "Gain/loss\t%s (%s)\n", s.Display.TotalGainLoss, s.Display.GainLossPercent)
	tw.Flush()
}
