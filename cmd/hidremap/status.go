package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/extinput/hidremap/internal/config"
	"github.com/extinput/hidremap/internal/quartz"
	"github.com/extinput/hidremap/internal/registry"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print config, permission, and device registry state",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== hidremap Status ===")
	fmt.Println()

	allOK := true

	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n", configPath)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("  Status: found")
	} else {
		fmt.Println("  Status: using defaults (not found)")
	}

	settings, err := config.Load()
	if err != nil {
		fmt.Printf("  Load error: %v\n", err)
		allOK = false
	}
	fmt.Println()

	fmt.Println("Accessibility trust:")
	if quartz.IsProcessTrusted() {
		fmt.Println("  Status: granted")
	} else {
		fmt.Println("  Status: NOT GRANTED")
		allOK = false
	}
	fmt.Println()

	if settings != nil {
		fmt.Println("Settings:")
		fmt.Printf("  Mouse transform enabled: %v\n", settings.MasterMouseEnabled)
		fmt.Printf("  Keyboard transform enabled: %v\n", settings.MasterKeyboardEnabled)
		fmt.Printf("  Reverse scroll: %v\n", settings.ReverseScroll)
		fmt.Printf("  Button mappings: %d\n", len(settings.ButtonMappings.All()))
		fmt.Printf("  Keyboard remaps: %d\n", len(settings.KeyboardRemaps.All()))
		fmt.Println()
	}

	fmt.Println("Device registry:")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	devices, err := registry.Open(ctx)
	if err != nil {
		fmt.Printf("  Error opening registry: %v\n", err)
		allOK = false
	} else {
		for _, d := range devices.Devices() {
			kind := "mouse"
			if d.Kind == registry.KindKeyboard {
				kind = "keyboard"
			}
			party := "external"
			if d.FirstParty {
				party = "first-party"
			}
			fmt.Printf("  %s %s (%s) vendor=0x%04X product=0x%04X\n", party, kind, d.ProductName, d.VendorID, d.ProductID)
		}
		if len(devices.Devices()) == 0 {
			fmt.Println("  (no HID devices enumerated)")
		}
		fmt.Printf("  External mouse present: %v\n", devices.ExternalMousePresent())
		fmt.Printf("  External keyboard present: %v\n", devices.ExternalKeyboardPresent())
	}
	fmt.Println()

	if allOK {
		fmt.Println("All checks passed.")
	} else {
		fmt.Println("Some checks failed. Run 'hidremap doctor' for details.")
	}

	return nil
}
