/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/allbin/serialprobe"
	"github.com/spf13/cobra"
)

// allow tests to override the port lookup
var getPortInfo = serialprobe.GetPortInfo

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display detailed information about a serial port including USB metadata.

Examples:
  serialprobe info /dev/ttyUSB0
  serialprobe info COM5

For USB devices, this displays vendor/product IDs, serial numbers and the
manufacturer and product strings. It also shows whether the port matches
the discovery patterns and whether the current user may open it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]

		info, err := getPortInfo(portPath)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error getting port info: %v\n", err)
			exit(1)
			return
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Port Information: %s\n\n", info.Path)
		fmt.Fprintf(out, "  Name:        %s\n", info.Name)
		fmt.Fprintf(out, "  Description: %s\n", info.Description)
		fmt.Fprintf(out, "  Type:        %s\n", getPortType(info.Name))
		fmt.Fprintf(out, "  Matches:     %s\n", yesNo(info.Matches(matchPatterns())))
		fmt.Fprintf(out, "  Accessible:  %s\n", yesNo(info.Accessible))

		// USB Device Information
		if info.IsUSB || info.VendorID != "" || info.ProductID != "" {
			fmt.Fprintln(out, "\nUSB Device Information:")
			if info.VendorID != "" {
				fmt.Fprintf(out, "  Vendor ID:    %s\n", info.VendorID)
			}
			if info.ProductID != "" {
				fmt.Fprintf(out, "  Product ID:   %s\n", info.ProductID)
			}
			if info.SerialNumber != "" {
				fmt.Fprintf(out, "  Serial:       %s\n", info.SerialNumber)
			}
			if info.Manufacturer != "" {
				fmt.Fprintf(out, "  Manufacturer: %s\n", info.Manufacturer)
			}
			if info.Product != "" {
				fmt.Fprintf(out, "  Product:      %s\n", info.Product)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
