package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.klb.dev/synq/internal/inputdev"
)

// newDevicesCmd builds "synqd devices": lists enumerated evdev nodes so an
// operator can pick a path for scroll_input_devices.
func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List detected input devices",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			devices, err := inputdev.List()
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Println("no input devices found under /dev/input")
				return nil
			}
			for _, d := range devices {
				id, err := inputdev.Identify(d.Path)
				if err != nil {
					fmt.Printf("%s\t%s\n", d.Path, d.Name)
					continue
				}
				fmt.Printf("%s\t%s\t(bus=%#04x vendor=%#04x product=%#04x)\n", d.Path, d.Name, id.BusType, id.Vendor, id.Product)
			}
			return nil
		},
	}
}
