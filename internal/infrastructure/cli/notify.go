package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	infraMessaging "github.com/felixgeelhaar/storyreview/internal/infrastructure/messaging"
	"github.com/felixgeelhaar/storyreview/pkg/domain/events"
	"github.com/felixgeelhaar/storyreview/pkg/domain/messaging"
)

// TestEventType is the type of the event sent by notify test.
const TestEventType = "notify.test"

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Inspect and test notification channels",
}

var notifyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured notification channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Notify.Adapters) == 0 {
			fmt.Println("No notification channels configured.")
			return nil
		}
		for _, a := range cfg.Notify.Adapters {
			state := "enabled"
			if !a.Enabled {
				state = "disabled"
			}
			filters := "all events"
			if len(a.EventFilters) > 0 {
				filters = strings.Join(a.EventFilters, ", ")
			}
			fmt.Printf("%-20s %-8s %-9s %s\n", a.Name, a.Type, state, filters)
		}
		return nil
	},
}

var notifyTestCmd = &cobra.Command{
	Use:   "test <name>",
	Short: "Send a test event to one channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		adapterCfg, ok := cfg.Notify.Find(args[0])
		if !ok {
			return NewCLIError(fmt.Sprintf("no notification channel named %q", args[0]), "Run 'storyreview notify list'", nil)
		}
		adapterCfg.Enabled = true
		adapterCfg.EventFilters = nil

		registry, err := infraMessaging.NewRegistry(&messaging.MessagingConfig{Adapters: []messaging.AdapterConfig{adapterCfg}}, nil)
		if err != nil {
			return NewCLIError("invalid notification channel", "Check the notify section of storyreview.yaml", err)
		}

		event := &events.StoryUpdated{BaseEvent: events.NewBase(TestEventType, "", cfg.Actor)}
		if err := registry.Handle(cmd.Context(), event); err != nil {
			return NewCLIError("test notification failed", "", err)
		}
		fmt.Printf("✓ Test event sent to %s\n", adapterCfg.Name)
		return nil
	},
}

func init() {
	notifyCmd.AddCommand(notifyListCmd, notifyTestCmd)
	RootCmd.AddCommand(notifyCmd)
}
