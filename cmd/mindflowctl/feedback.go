package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindflow/mindflow/internal/services"
)

func init() {
	feedbackCmd := &cobra.Command{
		Use:   "feedback <componentName>",
		Short: "Record whether a component helped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			helpful, _ := cmd.Flags().GetBool("helpful")
			note, _ := cmd.Flags().GetString("note")
			return runFeedback(apiFlag, args[0], helpful, note, os.Stdout)
		},
	}
	feedbackCmd.Flags().Bool("helpful", true, "Whether the component helped")
	feedbackCmd.Flags().String("note", "", "Optional feedback text")

	usageCmd := &cobra.Command{
		Use:   "usage",
		Short: "Show remote model usage since service start",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsage(apiFlag, os.Stdout)
		},
	}

	rootCmd.AddCommand(feedbackCmd, usageCmd)
}

func runFeedback(api, component string, helpful bool, note string, out io.Writer) error {
	body := map[string]interface{}{"componentName": component, "helpful": helpful}
	if note != "" {
		body["feedback"] = note
	}
	data, err := check(newClient(api).R().SetBody(body).Post("/api/interactions"))
	if err != nil {
		return err
	}
	if jsonFlag {
		return printJSON(out, data)
	}
	var res services.TrackResult
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("decode interaction: %w", err)
	}
	fmt.Fprintln(out, res.Learning)
	return nil
}

func runUsage(api string, out io.Writer) error {
	data, err := check(newClient(api).R().Get("/api/usage"))
	if err != nil {
		return err
	}
	return printJSON(out, data)
}
