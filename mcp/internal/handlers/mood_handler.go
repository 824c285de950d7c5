package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/mindflow/mindflow/internal/analytics"
	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/services"
)

// MoodHandler exposes analyze_mood_patterns, get_mood_context and log_mood.
type MoodHandler struct {
	svc *services.MoodService
}

func NewMoodHandler(svc *services.MoodService) *MoodHandler {
	return &MoodHandler{svc: svc}
}

// RegisterTools registers mood tools.
func (mh *MoodHandler) RegisterTools(s *server.MCPServer) error {
	analyze := mcp.NewTool("analyze_mood_patterns",
		mcp.WithDescription("Analyze the user's mood history over a trailing window and return average intensity, dominant mood, trend and insights"),
		mcp.WithNumber("days", mcp.Description(fmt.Sprintf("Window size in days (1-%d), default %d", services.MaxAnalysisDays, analytics.DefaultDays))),
	)
	s.AddTool(analyze, mh.handleAnalyze)

	moodContext := mcp.NewTool("get_mood_context",
		mcp.WithDescription("Return time-of-day context, suggestions and optionally the most recent mood entries"),
		mcp.WithBoolean("include_history", mcp.Description("Include the last few mood entries, default true")),
	)
	s.AddTool(moodContext, mh.handleContext)

	logMood := mcp.NewTool("log_mood",
		mcp.WithDescription("Record a mood entry with intensity 1-10"),
		mcp.WithString("mood", mcp.Required(), mcp.Description("One of joyful, calm, anxious, sad, angry, overwhelmed, peaceful, stressed")),
		mcp.WithNumber("intensity", mcp.Required(), mcp.Description("Intensity from 1 to 10")),
		mcp.WithString("notes", mcp.Description("Optional free-form notes")),
		mcp.WithArray("activities", mcp.Description("Optional activity tags"), mcp.Items(map[string]any{"type": "string"})),
	)
	s.AddTool(logMood, mh.handleLogMood)

	return nil
}

func (mh *MoodHandler) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days, err := intArg(req, "days", analytics.DefaultDays)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(mh.svc.Analyze(ctx, services.ClampDays(days)))
}

func (mh *MoodHandler) handleContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	include, err := boolArg(req, "include_history", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(mh.svc.Context(ctx, include))
}

func (mh *MoodHandler) handleLogMood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mood, err := req.RequireString("mood")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	intensity, err := intArg(req, "intensity", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	saved, err := mh.svc.Log(ctx, model.MoodEntry{
		Mood:       model.Mood(mood),
		Intensity:  intensity,
		Notes:      stringArg(req, "notes"),
		Activities: stringsArg(req, "activities"),
	})
	if err != nil {
		log.Debug().Err(err).Str("mood", mood).Int("intensity", intensity).Msg("log_mood rejected")
		return mcp.NewToolResultError(fmt.Sprintf("log_mood failed: %v", err)), nil
	}
	return jsonResult(saved)
}
