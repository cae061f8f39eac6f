package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/models"
	"github.com/ternarybob/bosbiss/internal/report"
	"github.com/ternarybob/bosbiss/internal/services/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze TICKER",
	Short: "Compute the fair value of a stock",
	Long: `Computes the Graham Number and, when --mean-per is given, the historical PER
valuation, then waits for the commentary. Without --price the current price is
looked up first.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeForm models.StockForm

var (
	analyzeFetchPrice bool
	analyzeSave       bool
	analyzeNoInsight  bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeForm.Price, "price", "", "Current price in Rupiah")
	analyzeCmd.Flags().StringVar(&analyzeForm.EPS, "eps", "", "Earnings per share")
	analyzeCmd.Flags().StringVar(&analyzeForm.BVPS, "bvps", "", "Book value per share")
	analyzeCmd.Flags().StringVar(&analyzeForm.MeanPER, "mean-per", "", "5-year average PER (optional)")
	analyzeCmd.Flags().BoolVar(&analyzeFetchPrice, "fetch-price", false, "Look up the current price even when --price is set")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Save the stock to the watchlist after the analysis")
	analyzeCmd.Flags().BoolVar(&analyzeNoInsight, "no-insight", false, "Print the numbers only")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	form := analyzeForm
	form.Ticker = args[0]
	return analyze(cmd.Context(), cmd.OutOrStdout(), application.Session, form)
}

// analyze runs one analysis cycle against s and prints it to out
func analyze(ctx context.Context, out io.Writer, s *session.Session, form models.StockForm) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if analyzeFetchPrice || strings.TrimSpace(form.Price) == "" {
		price, source, err := fetchPrice(ctx, s, form.Ticker)
		if err != nil {
			return err
		}
		form.Price = price
		if source != "" {
			fmt.Fprintf(out, "Harga %s: Rp %s (sumber: %s)\n\n", common.NormalizeTicker(form.Ticker), price, source)
		}
	}

	result, err := s.Analyze(ctx, form)
	if err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			return errors.New(verr.Message)
		}
		return err
	}

	input, err := form.Parse()
	if err != nil {
		return err
	}
	fmt.Fprint(out, report.Result(input, *result))

	if analyzeNoInsight {
		return saveIfRequested(ctx, out, s, form)
	}

	s.Wait()
	state := s.Analysis()
	switch {
	case state.Insight != nil:
		fmt.Fprintf(out, "\n%s\n", *state.Insight)
	case state.Error != nil:
		fmt.Fprintf(out, "\n%s\n", *state.Error)
	}

	return saveIfRequested(ctx, out, s, form)
}

func fetchPrice(ctx context.Context, s *session.Session, ticker string) (price, source string, err error) {
	if err := s.FetchCurrentPrice(ctx, ticker); err != nil {
		return "", "", err
	}
	s.Wait()

	snapshot := s.Snapshot()
	if snapshot.Analysis.Error != nil {
		return "", "", errors.New(*snapshot.Analysis.Error)
	}
	return snapshot.Form.Price, snapshot.PriceSource, nil
}

func saveIfRequested(ctx context.Context, out io.Writer, s *session.Session, form models.StockForm) error {
	if !analyzeSave {
		return nil
	}
	saved, err := s.SaveToWatchlist(ctx, form)
	if err != nil {
		return err
	}
	if saved {
		fmt.Fprintln(out, session.SavedMessage(form.Ticker))
	}
	return nil
}
