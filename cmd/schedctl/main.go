package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	natsFlag  string
	adminFlag string
	rootCmd   = &cobra.Command{
		Use:   "schedctl",
		Short: "CLI client for the schedule-assist worker",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&natsFlag, "nats", "n", "nats://127.0.0.1:4222", "NATS server URL")
	rootCmd.PersistentFlags().StringVarP(&adminFlag, "admin", "a", "http://localhost:8080", "Worker admin base URL")

	enqueueCmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Publish a planning request to the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user-id")
			windowStart, _ := cmd.Flags().GetString("window-start")
			windowEnd, _ := cmd.Flags().GetString("window-end")
			timezone, _ := cmd.Flags().GetString("timezone")
			nlRequest, _ := cmd.Flags().GetString("nl-request")
			subject, _ := cmd.Flags().GetString("subject")
			return runEnqueue(natsFlag, subject, userID, windowStart, windowEnd, timezone, nlRequest, os.Stdout)
		},
	}
	enqueueCmd.Flags().StringP("user-id", "u", "", "Host user ID (required)")
	enqueueCmd.Flags().String("window-start", "", "Window start, e.g. 2026-01-05T00:00:00 (required)")
	enqueueCmd.Flags().String("window-end", "", "Window end, e.g. 2026-01-09T23:59:59 (required)")
	enqueueCmd.Flags().StringP("timezone", "z", "", "Host IANA timezone (required)")
	enqueueCmd.Flags().String("nl-request", "", "Optional natural-language request")
	enqueueCmd.Flags().String("subject", "schedule.assist.plan", "Queue subject")
	_ = enqueueCmd.MarkFlagRequired("user-id")
	_ = enqueueCmd.MarkFlagRequired("window-start")
	_ = enqueueCmd.MarkFlagRequired("window-end")
	_ = enqueueCmd.MarkFlagRequired("timezone")
	rootCmd.AddCommand(enqueueCmd)

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Query the worker admin health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(adminFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(healthCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
