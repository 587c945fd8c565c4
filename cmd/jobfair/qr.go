package main

import (
	"fmt"

	"jobfair/internal/qrcode"

	"github.com/spf13/cobra"
)

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Print the QR image URL for the form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		locator := qrcode.NewLocator(cfg.QRServiceURL, cfg.FormURL())

		target, _ := cmd.Flags().GetString("url")
		if target == "" {
			target = locator.FormURL()
		}
		size, _ := cmd.Flags().GetInt("size")
		if size <= 0 {
			size = cfg.QRSize
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), locator.GenerateQRCodeURL(target, size))
		return err
	},
}
