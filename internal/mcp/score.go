package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/toolate28/spiralsafe-mono/internal/score"
)

// ScoreTextTool handles the spiralsafe_score_text MCP tool.
type ScoreTextTool struct{}

func NewScoreTextTool() *ScoreTextTool {
	return &ScoreTextTool{}
}

func (t *ScoreTextTool) Definition() mcp.Tool {
	return mcp.NewTool("spiralsafe_score_text",
		mcp.WithDescription(
			"Compute wave-coherence metrics for a piece of text: lexical "+
				"diversity, adjacent-word repetition, sentence rhythm, and the "+
				"combined coherence score in [0,1].",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to analyze."),
		),
	)
}

func (t *ScoreTextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	return jsonResult(score.Analyze(text))
}

// GenerateTagTool handles the spiralsafe_generate_tag MCP tool.
type GenerateTagTool struct {
	counters score.CounterStore
}

func NewGenerateTagTool(counters score.CounterStore) *GenerateTagTool {
	return &GenerateTagTool{counters: counters}
}

func (t *GenerateTagTool) Definition() mcp.Tool {
	return mcp.NewTool("spiralsafe_generate_tag",
		mcp.WithDescription(
			"Generate the next unique tag of the form TYPE-YYYYMMDD-NNNN. The "+
				"per-type-per-day counter is persisted, so tags stay unique across "+
				"restarts and concurrent sessions.",
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Tag type, e.g. WAVE or GATE. Uppercased in the tag."),
		),
	)
}

func (t *GenerateTagTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := req.GetString("type", "")
	if kind == "" {
		return mcp.NewToolResultError("type is required"), nil
	}
	tag, err := score.GenerateTag(kind, time.Now(), t.counters)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(tag), nil
}
