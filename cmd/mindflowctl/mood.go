package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindflow/mindflow/internal/model"
)

func init() {
	moodCmd := &cobra.Command{Use: "mood", Short: "Log and inspect mood history"}

	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Record a mood entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			mood, _ := cmd.Flags().GetString("mood")
			intensity, _ := cmd.Flags().GetInt("intensity")
			activities, _ := cmd.Flags().GetStringSlice("activity")
			notes, _ := cmd.Flags().GetString("notes")
			return runMoodLog(apiFlag, model.MoodEntry{
				Mood:       model.Mood(mood),
				Intensity:  intensity,
				Activities: activities,
				Notes:      notes,
			}, os.Stdout)
		},
	}
	logCmd.Flags().StringP("mood", "m", "", "Mood label (required)")
	logCmd.Flags().IntP("intensity", "i", 5, "Intensity from 1 to 10")
	logCmd.Flags().StringSlice("activity", nil, "Activity tag (repeatable)")
	logCmd.Flags().StringP("notes", "n", "", "Free-form notes")
	_ = logCmd.MarkFlagRequired("mood")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List stored mood entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMoodHistory(apiFlag, os.Stdout)
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize recent mood patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			return runMoodAnalyze(apiFlag, days, os.Stdout)
		},
	}
	analyzeCmd.Flags().IntP("days", "d", 7, "Window size in days")

	contextCmd := &cobra.Command{
		Use:   "context",
		Short: "Show time-of-day context and recent moods",
		RunE: func(cmd *cobra.Command, args []string) error {
			include, _ := cmd.Flags().GetBool("history")
			return runMoodContext(apiFlag, include, os.Stdout)
		},
	}
	contextCmd.Flags().Bool("history", true, "Include recent mood entries")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored mood entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMoodClear(apiFlag, os.Stdout)
		},
	}

	moodCmd.AddCommand(logCmd, historyCmd, analyzeCmd, contextCmd, clearCmd)
	rootCmd.AddCommand(moodCmd)
}

func runMoodLog(api string, e model.MoodEntry, out io.Writer) error {
	body := map[string]interface{}{"mood": e.Mood, "intensity": e.Intensity}
	if len(e.Activities) > 0 {
		body["activities"] = e.Activities
	}
	if e.Notes != "" {
		body["notes"] = e.Notes
	}
	data, err := check(newClient(api).R().SetBody(body).Post("/api/moods"))
	if err != nil {
		return err
	}
	if jsonFlag {
		return printJSON(out, data)
	}
	var saved model.MoodEntry
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("decode mood entry: %w", err)
	}
	fmt.Fprintf(out, "logged %s (%d/10) at %s\n", saved.Mood, saved.Intensity, saved.Timestamp.Format("2006-01-02 15:04"))
	return nil
}

func runMoodHistory(api string, out io.Writer) error {
	data, err := check(newClient(api).R().Get("/api/moods"))
	if err != nil {
		return err
	}
	if jsonFlag {
		return printJSON(out, data)
	}
	var resp struct {
		Entries []model.MoodEntry `json:"entries"`
		Count   int               `json:"count"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode mood history: %w", err)
	}
	if resp.Count == 0 {
		fmt.Fprintln(out, "no mood entries")
		return nil
	}
	for _, e := range resp.Entries {
		line := fmt.Sprintf("%s  %-11s %2d/10", e.Timestamp.Format("2006-01-02 15:04"), e.Mood, e.Intensity)
		if len(e.Activities) > 0 {
			line += "  [" + strings.Join(e.Activities, ", ") + "]"
		}
		if e.Notes != "" {
			line += "  " + e.Notes
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runMoodAnalyze(api string, days int, out io.Writer) error {
	data, err := check(newClient(api).R().
		SetQueryParam("days", strconv.Itoa(days)).
		Get("/api/moods/analysis"))
	if err != nil {
		return err
	}
	if jsonFlag {
		return printJSON(out, data)
	}
	var a model.MoodAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("decode analysis: %w", err)
	}
	fmt.Fprintf(out, "entries: %d  average: %.1f  dominant: %s  trend: %s\n", a.EntriesCount, a.AverageIntensity, a.DominantMood, a.Trend)
	for _, s := range a.Insights {
		fmt.Fprintf(out, "  * %s\n", s)
	}
	return nil
}

func runMoodContext(api string, includeHistory bool, out io.Writer) error {
	data, err := check(newClient(api).R().
		SetQueryParam("includeHistory", strconv.FormatBool(includeHistory)).
		Get("/api/moods/context"))
	if err != nil {
		return err
	}
	return printJSON(out, data)
}

func runMoodClear(api string, out io.Writer) error {
	if _, err := check(newClient(api).R().Delete("/api/moods")); err != nil {
		return err
	}
	fmt.Fprintln(out, "mood history cleared")
	return nil
}
