package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindflow/mindflow/internal/wellness"
)

func init() {
	promptsCmd := &cobra.Command{
		Use:   "prompts",
		Short: "Show journal prompts for a mood",
		RunE: func(cmd *cobra.Command, args []string) error {
			mood, _ := cmd.Flags().GetString("mood")
			return runPrompts(apiFlag, mood, os.Stdout)
		},
	}
	promptsCmd.Flags().StringP("mood", "m", "", "Mood label (defaults to calm)")

	resourcesCmd := &cobra.Command{
		Use:   "resources",
		Short: "Show crisis hotlines and grounding steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			urgency, _ := cmd.Flags().GetString("urgency")
			location, _ := cmd.Flags().GetString("location")
			return runResources(apiFlag, urgency, location, os.Stdout)
		},
	}
	resourcesCmd.Flags().StringP("urgency", "u", "", "medium, high or critical (defaults to high)")
	resourcesCmd.Flags().StringP("location", "l", "", "Location label")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(apiFlag, os.Stdout)
		},
	}

	rootCmd.AddCommand(promptsCmd, resourcesCmd, healthCmd)
}

func runPrompts(api, mood string, out io.Writer) error {
	req := newClient(api).R()
	if mood != "" {
		req.SetQueryParam("mood", mood)
	}
	data, err := check(req.Get("/api/journal-prompts"))
	if err != nil {
		return err
	}
	if jsonFlag {
		return printJSON(out, data)
	}
	var resp struct {
		Prompts  []string `json:"prompts"`
		Guidance string   `json:"guidance"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode prompts: %w", err)
	}
	fmt.Fprintln(out, resp.Guidance)
	for i, p := range resp.Prompts {
		fmt.Fprintf(out, "%d. %s\n", i+1, p)
	}
	return nil
}

func runResources(api, urgency, location string, out io.Writer) error {
	req := newClient(api).R()
	if urgency != "" {
		req.SetQueryParam("urgency", urgency)
	}
	if location != "" {
		req.SetQueryParam("location", location)
	}
	data, err := check(req.Get("/api/resources"))
	if err != nil {
		return err
	}
	if jsonFlag {
		return printJSON(out, data)
	}
	var res wellness.Resources
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("decode resources: %w", err)
	}
	fmt.Fprintln(out, res.Message)
	for _, h := range res.Crisis {
		fmt.Fprintf(out, "  %s: %s\n", h.Name, h.Contact)
	}
	for _, c := range res.Immediate {
		fmt.Fprintf(out, "  %s: %s (%s)\n", c.Name, c.Description, c.When)
	}
	return nil
}

func runHealth(api string, out io.Writer) error {
	data, err := check(newClient(api).R().Get("/api/health"))
	if err != nil {
		return err
	}
	return printJSON(out, data)
}
