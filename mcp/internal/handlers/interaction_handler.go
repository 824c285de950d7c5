package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mindflow/mindflow/internal/selector"
	"github.com/mindflow/mindflow/internal/services"
)

// InteractionHandler exposes track_interaction and select_components.
type InteractionHandler struct {
	svc *services.InteractionService
}

func NewInteractionHandler(svc *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

func (ih *InteractionHandler) RegisterTools(s *server.MCPServer) error {
	track := mcp.NewTool("track_interaction",
		mcp.WithDescription("Record whether a surfaced component helped the user"),
		mcp.WithString("component_name", mcp.Required(), mcp.Description("Component identifier, e.g. BreathingExercise")),
		mcp.WithBoolean("helpful", mcp.Required(), mcp.Description("Whether the component helped")),
		mcp.WithString("feedback", mcp.Description("Optional free-form feedback")),
	)
	s.AddTool(track, ih.handleTrack)

	sel := mcp.NewTool("select_components",
		mcp.WithDescription("Deterministically select wellness components for a message using keyword rules"),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user's message")),
	)
	s.AddTool(sel, ih.handleSelect)
	return nil
}

func (ih *InteractionHandler) handleTrack(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("component_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := req.GetArguments()["helpful"]; !ok {
		return mcp.NewToolResultError("helpful is required"), nil
	}
	helpful, err := boolArg(req, "helpful", false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := ih.svc.Track(ctx, name, helpful, stringArg(req, "feedback"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("track_interaction failed: %v", err)), nil
	}
	return jsonResult(res)
}

func (ih *InteractionHandler) handleSelect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msg, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"components": selector.Fallback(msg),
		"crisis":     selector.IsCrisis(msg),
	})
}
