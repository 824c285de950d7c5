package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindflow/mindflow/internal/services"
)

func init() {
	chatCmd := &cobra.Command{
		Use:   "chat <message...>",
		Short: "Send one chat turn and print the selected components",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(apiFlag, strings.Join(args, " "), os.Stdout)
		},
	}
	rootCmd.AddCommand(chatCmd)
}

func runChat(api, message string, out io.Writer) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message required")
	}
	data, err := check(newClient(api).R().
		SetBody(services.ChatRequest{Message: message}).
		Post("/api/chat"))
	if err != nil {
		return err
	}
	if jsonFlag {
		return printJSON(out, data)
	}

	var resp services.ChatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode chat response: %w", err)
	}
	fmt.Fprintln(out, resp.Response)
	fmt.Fprintf(out, "\nsource: %s (ai available: %t)\n", resp.Source, resp.AIAvailable)
	for _, c := range resp.Components {
		fmt.Fprintf(out, "  - %s: %s\n", c.Component, c.Reasoning)
	}
	return nil
}
