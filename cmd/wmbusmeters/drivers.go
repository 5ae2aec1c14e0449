package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2007M4N/wmbusmeters/internal/drivers"
)

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "List the supported meter drivers",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, d := range drivers.All() {
			fmt.Printf("%-14s %-22s medium=%-18s manufacturer=%s\n", d.Name, d.LinkModes, d.Medium, d.Manufacturer)
		}
		return nil
	},
}
