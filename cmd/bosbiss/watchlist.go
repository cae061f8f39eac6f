package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ternarybob/bosbiss/internal/models"
	"github.com/ternarybob/bosbiss/internal/report"
	"github.com/ternarybob/bosbiss/internal/services/session"
)

var watchlistCmd = &cobra.Command{
	Use:     "watchlist",
	Aliases: []string{"pantauan"},
	Short:   "Manage saved stocks",
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved stocks, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Close()

		fmt.Fprint(cmd.OutOrStdout(), report.Watchlist(application.Session.Watchlist()))
		return nil
	},
}

var watchlistSaveForm models.StockForm

var watchlistSaveCmd = &cobra.Command{
	Use:   "save TICKER",
	Short: "Save a stock to the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Close()

		form := watchlistSaveForm
		form.Ticker = args[0]
		saved, err := application.Session.SaveToWatchlist(cmd.Context(), form)
		if err != nil {
			return err
		}
		if !saved {
			return errors.New(session.MsgAnalysisFields)
		}
		fmt.Fprintln(cmd.OutOrStdout(), session.SavedMessage(form.Ticker))
		return nil
	},
}

var watchlistDeleteYes bool

var watchlistDeleteCmd = &cobra.Command{
	Use:   "delete TICKER",
	Short: "Remove a stock from the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := args[0]
		confirmed := watchlistDeleteYes || confirm(cmd.InOrStdin(), cmd.OutOrStdout(), session.ConfirmDeletePrompt(ticker))
		if !confirmed {
			return nil
		}

		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Close()

		return application.Session.DeleteFromWatchlist(cmd.Context(), ticker, true)
	},
}

func init() {
	watchlistSaveCmd.Flags().StringVar(&watchlistSaveForm.Price, "price", "", "Current price in Rupiah")
	watchlistSaveCmd.Flags().StringVar(&watchlistSaveForm.EPS, "eps", "", "Earnings per share")
	watchlistSaveCmd.Flags().StringVar(&watchlistSaveForm.BVPS, "bvps", "", "Book value per share")
	watchlistSaveCmd.Flags().StringVar(&watchlistSaveForm.MeanPER, "mean-per", "", "5-year average PER (optional)")

	watchlistDeleteCmd.Flags().BoolVarP(&watchlistDeleteYes, "yes", "y", false, "Delete without asking")

	watchlistCmd.AddCommand(watchlistListCmd, watchlistSaveCmd, watchlistDeleteCmd)
}

// confirm asks a yes/no question on out and reads the answer from in
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "ya", "yes":
		return true
	}
	return false
}
