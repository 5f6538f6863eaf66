package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.klb.dev/synq/internal/evdev"
	"go.klb.dev/synq/internal/inputdev"
)

// newDetectCmd builds "synqd detect": opens every enumerated device
// read-only in parallel, waits for the user to scroll, and reports which
// device produced the first scroll event.
func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Scroll your wheel to identify its device path",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			devices, err := inputdev.List()
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				return fmt.Errorf("detect: no input devices found under /dev/input")
			}

			fmt.Println("scroll the wheel you want synq to share...")

			found := make(chan inputdev.Info, len(devices))
			for _, d := range devices {
				go watchForScroll(d, found)
			}
			info := <-found
			fmt.Printf("detected: %s\t%s\n", info.Path, info.Name)
			return nil
		},
	}
}

func watchForScroll(d inputdev.Info, found chan<- inputdev.Info) {
	f, err := inputdev.OpenReadOnly(d.Path)
	if err != nil {
		return
	}
	defer f.Close()

	for {
		ev, err := evdev.ReadEvent(f)
		if err != nil {
			return
		}
		if ev.IsScroll() {
			select {
			case found <- d:
			default:
			}
			return
		}
	}
}
