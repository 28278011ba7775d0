package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/raidloot/auctionhall/engine"
	"github.com/raidloot/auctionhall/httpapi"
)

var rootCmd = &cobra.Command{
	Use:   "auctionhalld",
	Short: "Timed multi-participant auction engine",
	Long: `auctionhalld coordinates timed, multi-participant auctions: participants
submit lottery entries or sealed bids against a time-boxed window, and at
window close a deterministic outcome is recorded in the session ledger.
The HTTP surface is presentation glue; persistence, identity and rendering
belong to the caller.`,
	RunE: runServe,
}

func main() {
	cobra.OnInitialize(initConfig)
	addFlags()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("AUCTIONHALL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addFlags() {
	rootCmd.Flags().String("listen", ":8080", "listen address")
	rootCmd.Flags().Int64("minimum-bid", engine.DefaultMinimumBid, "starting sealed-bid floor per session")
	rootCmd.Flags().Duration("max-window-duration", engine.DefaultMaxWindowDuration, "longest countdown a window may request")
	rootCmd.Flags().Bool("verbose", false, "verbose logging")
	_ = viper.BindPFlag("listen", rootCmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("minimum-bid", rootCmd.Flags().Lookup("minimum-bid"))
	_ = viper.BindPFlag("max-window-duration", rootCmd.Flags().Lookup("max-window-duration"))
	_ = viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
}

func runServe(cmd *cobra.Command, args []string) error {
	lg := logger.Init("auctionhalld", viper.GetBool("verbose"), false, io.Discard)
	defer lg.Close()

	manager := engine.NewSessionManager(engine.SessionConfig{
		MinimumBid:        viper.GetInt64("minimum-bid"),
		MaxWindowDuration: viper.GetDuration("max-window-duration"),
	})

	router := gin.Default()
	httpapi.NewHandler(manager).RegisterRoutes(router)

	listen := viper.GetString("listen")
	logger.Infof("auctionhalld listening on %s (minimum bid %d, max window %s)",
		listen, viper.GetInt64("minimum-bid"), viper.GetDuration("max-window-duration"))

	if err := router.Run(listen); err != nil {
		return fmt.Errorf("running server: %w", err)
	}
	return nil
}
