package main

import (
	"fmt"
	"os"

	"jobfair/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "jobfair",
	Short: "Job fair visitor registration server",
	Long: `jobfair serves the bilingual visitor registration form used at job-fair
booths, forwards each submission to the configured collaborator endpoint and
renders QR codes pointing visitors at the form.

Configuration comes from flags, JOBFAIR_* environment variables, an optional
jobfair.env file and built-in defaults, in that order.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./jobfair.env when present)")

	serveCmd.Flags().Int("port", 8080, "HTTP port")
	serveCmd.Flags().String("form-url", "", "Public form URL encoded in QR codes")
	serveCmd.Flags().String("endpoint", "", "Submission endpoint URL")
	serveCmd.Flags().String("variant", "", "Form variant (exhibition or phd)")
	bindFlag(serveCmd, "SERVER_PORT", "port")
	bindFlag(serveCmd, "QR_FORM_URL", "form-url")
	bindFlag(serveCmd, "DISPATCH_ENDPOINT", "endpoint")
	bindFlag(serveCmd, "FORM_VARIANT", "variant")

	qrCmd.Flags().String("url", "", "URL to encode (default: configured form URL)")
	qrCmd.Flags().Int("size", 0, "Image size in pixels (default: QR_SIZE)")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateSeedCmd)
	sessionsCmd.AddCommand(sessionsFlushCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd, qrCmd, sessionsCmd)
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

func loadConfig() (config.Config, error) {
	return config.Load(viper.GetViper(), configFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
