// Command hidremap is the HID input transformer daemon: it runs the
// Interceptor Core against the session and HID event taps, and exposes
// status/doctor subcommands for operators debugging a misbehaving mouse.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hidremap",
	Short: "Transform external mouse/keyboard input on macOS",
}

func init() {
	rootCmd.AddCommand(runCmd, statusCmd, doctorCmd)
	log.SetFlags(log.LstdFlags)
}
