package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/extinput/hidremap/internal/config"
	"github.com/extinput/hidremap/internal/dispatch"
	"github.com/extinput/hidremap/internal/gesture"
	"github.com/extinput/hidremap/internal/interceptor"
	"github.com/extinput/hidremap/internal/quartz"
	"github.com/extinput/hidremap/internal/registry"
	"github.com/extinput/hidremap/internal/scroll"
	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interceptor daemon (default)",
	RunE:  runDaemon,
}

func init() {
	rootCmd.RunE = runDaemon
}

// runDaemon assembles the Device Registry, Settings Bridge, Scroll/Gesture
// engines, Button & Key Dispatcher, and Interceptor Core, then restarts the
// taps across sleep/wake the way belowdeck restarts its device loop on
// wake signals.
func runDaemon(cmd *cobra.Command, args []string) error {
	log.Println("=== hidremap ===")
	log.Println("Press Ctrl+C to exit")

	if !quartz.IsProcessTrusted() {
		return fmt.Errorf("accessibility/input monitoring permission not granted; open System Settings > Privacy & Security > Accessibility and add this binary")
	}

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	bridge := config.NewBridge(settings)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("received shutdown signal")
		cancel()
	}()

	sleepCh := notifier.GetInstance().Start()
	wakeCh := make(chan struct{}, 1)
	go func() {
		for activity := range sleepCh {
			if activity.Type == notifier.Awake {
				log.Println("system wake detected")
				select {
				case wakeCh <- struct{}{}:
				default:
				}
			}
		}
	}()

	devices, err := registry.Open(ctx)
	if err != nil {
		return fmt.Errorf("opening device registry: %w", err)
	}

	dispatcher := dispatch.NewDispatcher(dispatch.DefaultExecutor())
	scrollEng := scroll.NewEngine(presetFor(bridge.Snapshot().SmoothLevel))
	gestureEng := gesture.NewEngine(dispatcher, gesture.SpaceCounter)

	for {
		ic := interceptor.New(bridge, devices, dispatcher, scrollEng, gestureEng)

		runCtx, runCancel := context.WithCancel(ctx)
		errCh := make(chan error, 1)
		go func() { errCh <- ic.Start(runCtx) }()

		select {
		case <-ctx.Done():
			runCancel()
			<-errCh
			log.Println("exiting...")
			return nil
		case err := <-errCh:
			runCancel()
			if err != nil {
				log.Printf("interceptor stopped: %v", err)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(2 * time.Second):
			}
		case <-wakeCh:
			log.Println("restarting taps after wake...")
			ic.Stop()
			<-errCh
			runCancel()
		}
	}
}

// presetFor maps the persisted smooth level to the Animator preset it
// selects; Off never drives the animator (HandleWheel's SmoothEligible
// gate short-circuits before DriveAnimator is returned).
func presetFor(level config.SmoothLevel) scroll.Preset {
	if level == config.VerySmooth {
		return scroll.VerySmoothPreset
	}
	return scroll.SmoothPreset
}
