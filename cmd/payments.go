package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"

	"github.com/spf13/cobra"
)

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Preferred payment methods",
	RunE:  runPayments,
}

func init() {
	rootCmd.AddCommand(paymentsCmd)
}

func runPayments(cmd *cobra.Command, _ []string) error {
	p, err := newPrinter()
	if err != nil {
		return err
	}
	r, err := buildReport(pipeline.DefaultSelection())
	if err != nil {
		return err
	}

	v := cli.View{
		Title:   "PREFERRED PAYMENT METHODS",
		Headers: []string{"Method", "Students", "Share"},
		Data:    r.Payments,
	}
	for _, s := range r.Payments {
		v.Rows = append(v.Rows, []string{s.Name, cli.FormatNumber(int64(s.Count)), cli.FormatPercent(s.Percent)})
		v.Raw = append(v.Raw, []string{s.Name, strconv.Itoa(s.Count), cli.FormatFloat(s.Percent)})
	}
	if err := p.Print(v); err != nil {
		return err
	}
	if p.Format() == cli.FormatTable && len(r.Payments) > 0 {
		_, err = fmt.Fprint(cmd.OutOrStdout(), "\n"+paymentBars(r.Payments, 30))
	}
	return err
}

// paymentBars draws each method's share as a bar scaled to the largest.
func paymentBars(shares []model.Share, width int) string {
	labelW, peak := 0, 0.0
	for _, s := range shares {
		labelW = max(labelW, len(s.Name))
		peak = max(peak, s.Percent)
	}
	var b strings.Builder
	for _, s := range shares {
		b.WriteString(cli.RenderHorizontalBar(s.Name, s.Percent, peak, labelW, width,
			fmt.Sprintf("%s (%d)", cli.FormatPercent(s.Percent), s.Count)))
		b.WriteString("\n")
	}
	return b.String()
}
