package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/wellness"
)

// WellnessHandler exposes the static guidance tools.
type WellnessHandler struct{}

func NewWellnessHandler() *WellnessHandler { return &WellnessHandler{} }

func (wh *WellnessHandler) RegisterTools(s *server.MCPServer) error {
	prompts := mcp.NewTool("get_journal_prompts",
		mcp.WithDescription("Return reflective journal prompts for a mood"),
		mcp.WithString("mood", mcp.Description("Mood label; unknown or empty moods get the calm prompts")),
	)
	s.AddTool(prompts, wh.handleJournalPrompts)

	resources := mcp.NewTool("get_emergency_resources",
		mcp.WithDescription("Return crisis hotlines and emergency contacts. Use whenever the user may be at risk."),
		mcp.WithString("urgency", mcp.Description("medium, high or critical; default high"), mcp.Enum("medium", "high", "critical")),
		mcp.WithString("location", mcp.Description("Location label, default United States")),
	)
	s.AddTool(resources, wh.handleResources)
	return nil
}

func (wh *WellnessHandler) handleJournalPrompts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mood := model.Mood(stringArg(req, "mood"))
	if !mood.Valid() {
		mood = model.MoodCalm
	}
	return jsonResult(map[string]any{
		"mood":     mood,
		"prompts":  wellness.JournalPrompts(mood),
		"guidance": fmt.Sprintf("These prompts are designed to help process %s feelings.", mood),
	})
}

func (wh *WellnessHandler) handleResources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	u, err := wellness.ParseUrgency(stringArg(req, "urgency"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(wellness.EmergencyResources(u, stringArg(req, "location")))
}
