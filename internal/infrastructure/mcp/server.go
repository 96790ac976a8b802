package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/daybrief/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/daybrief/pkg/application"
	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
)

type Server struct {
	mcpServer *mcp.Server
	itemSvc   *application.ItemService
	insights  *application.InsightService
	logger    *slog.Logger
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

func NewServer(services *wiring.AppServices) (*Server, error) {
	if services == nil {
		return nil, fmt.Errorf("services initialization returned nil")
	}

	info := mcp.ServerInfo{
		Name:    "daybrief",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Daybrief MCP Server"),
			mcp.WithDescription("Daybrief ranks work items by urgency, lays out a daily plan, and suggests settings for new items."),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Pass tasks explicitly or omit them to use the server's item store. Use daybrief_add_item and daybrief_transition_item to maintain the store."),
		),
		itemSvc:  services.Items,
		insights: services.Insights,
		logger:   services.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.registerTools()
	s.registerTipsResource()
	s.registerSchemaResource()
	return s, nil
}

type ItemsArgs struct {
	Tasks []planning.WorkItem `json:"tasks,omitempty" jsonschema:"description=Work items to analyse. Omit to use the server's item store."`
}

type SuggestArgs struct {
	Title       string `json:"title" jsonschema:"required,description=Title of the prospective work item"`
	Description string `json:"description,omitempty" jsonschema:"description=Optional longer description"`
}

type ListItemsArgs struct {
	Status   string `json:"status,omitempty" jsonschema:"description=Filter by status (pending, in-progress, completed, overdue)"`
	Priority string `json:"priority,omitempty" jsonschema:"description=Filter by priority (critical, high, medium, low)"`
	Category string `json:"category,omitempty" jsonschema:"description=Filter by category (case-insensitive)"`
	Search   string `json:"search,omitempty" jsonschema:"description=Substring to look for in title or description"`
	SortBy   string `json:"sort_by,omitempty" jsonschema:"description=createdAt (default), deadline or priority"`
}

type AddItemArgs struct {
	Title          string   `json:"title" jsonschema:"required,description=Item title"`
	Description    string   `json:"description,omitempty" jsonschema:"description=Item description"`
	Deadline       string   `json:"deadline,omitempty" jsonschema:"description=ISO 8601 deadline"`
	Priority       string   `json:"priority,omitempty" jsonschema:"description=critical, high, medium (default) or low"`
	Category       string   `json:"category,omitempty" jsonschema:"description=Free-form category"`
	EstimatedHours *float64 `json:"estimatedHours,omitempty" jsonschema:"description=Estimated effort in hours (0.5 to 100)"`
}

type TransitionItemArgs struct {
	ItemID string `json:"item_id" jsonschema:"required,description=ID of the item"`
	Event  string `json:"event" jsonschema:"required,description=start, complete, reopen, lapse or pause"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("daybrief_rank_priorities").
		Description("Rank the three most urgent active work items with reasons and suggested time slots").
		Handler(s.handleRankPriorities)

	s.mcpServer.Tool("daybrief_daily_plan").
		Description("Lay the four most urgent active work items into time blocks for today").
		Handler(s.handleDailyPlan)

	s.mcpServer.Tool("daybrief_suggest").
		Description("Suggest priority, estimated hours and a tip for a prospective work item").
		Handler(s.handleSuggest)

	s.mcpServer.Tool("daybrief_list_items").
		Description("List work items in the store with optional filters").
		Handler(s.handleListItems)

	s.mcpServer.Tool("daybrief_add_item").
		Description("Add a work item to the store").
		Handler(s.handleAddItem)

	s.mcpServer.Tool("daybrief_transition_item").
		Description("Change a work item's status by firing a lifecycle event").
		Handler(s.handleTransitionItem)

	s.mcpServer.Tool("daybrief_stats").
		Description("Summarise the store: totals per status, derived overdue count and progress").
		Handler(s.handleStats)
}

func (s *Server) resolveItems(args ItemsArgs) ([]planning.WorkItem, error) {
	if len(args.Tasks) > 0 {
		return args.Tasks, nil
	}
	items, err := s.itemSvc.All()
	if err != nil {
		return nil, mcpErr("Failed to read the item store.")
	}
	return items, nil
}

func (s *Server) handleRankPriorities(ctx context.Context, args ItemsArgs) (any, error) {
	items, err := s.resolveItems(args)
	if err != nil {
		return nil, err
	}
	report, err := s.insights.RankPriorities(ctx, items)
	if errors.Is(err, planning.ErrEmptyItems) {
		return nil, mcpErr("Task list cannot be empty. Pass tasks or add items with daybrief_add_item.")
	}
	if err != nil {
		return nil, mcpErr("Failed to rank priorities.")
	}
	return report, nil
}

func (s *Server) handleDailyPlan(ctx context.Context, args ItemsArgs) (any, error) {
	items, err := s.resolveItems(args)
	if err != nil {
		return nil, err
	}
	report, err := s.insights.BuildDailyPlan(items)
	if errors.Is(err, planning.ErrEmptyItems) {
		return nil, mcpErr("Task list cannot be empty. Pass tasks or add items with daybrief_add_item.")
	}
	if err != nil {
		return nil, mcpErr("Failed to build the daily plan.")
	}
	return report, nil
}

func (s *Server) handleSuggest(ctx context.Context, args SuggestArgs) (any, error) {
	suggestion, err := s.insights.Suggest(args.Title, args.Description)
	if err != nil {
		return nil, mcpErr("Task title is required.")
	}
	return suggestion, nil
}

func (s *Server) handleListItems(ctx context.Context, args ListItemsArgs) (any, error) {
	items, err := s.itemSvc.List(application.ItemFilter{
		Status:   args.Status,
		Priority: args.Priority,
		Category: args.Category,
		Search:   args.Search,
		SortBy:   args.SortBy,
	})
	if err != nil {
		return nil, mcpErr("Failed to list items.")
	}
	return items, nil
}

func (s *Server) handleAddItem(ctx context.Context, args AddItemArgs) (any, error) {
	item, err := s.itemSvc.Create(application.ItemInput{
		Title:          args.Title,
		Description:    args.Description,
		Deadline:       args.Deadline,
		Priority:       planning.ItemPriority(args.Priority),
		Category:       args.Category,
		EstimatedHours: args.EstimatedHours,
	})
	if err != nil {
		var vErr *planning.ValidationError
		if errors.As(err, &vErr) {
			return nil, mcpErr(fmt.Sprintf("Invalid item: %s.", vErr.Error()))
		}
		if errors.Is(err, planning.ErrEmptyTitle) {
			return nil, mcpErr("Task title is required.")
		}
		return nil, mcpErr("Failed to add item.")
	}
	return item, nil
}

func (s *Server) handleTransitionItem(ctx context.Context, args TransitionItemArgs) (string, error) {
	item, err := s.itemSvc.Transition(args.ItemID, args.Event)
	if err != nil {
		if errors.Is(err, planning.ErrItemNotFound) {
			return "", mcpErr(fmt.Sprintf("Item '%s' not found.", args.ItemID))
		}
		return "", mcpErr(fmt.Sprintf("Failed to transition item '%s' with event '%s'. Ensure the transition is valid.", args.ItemID, args.Event))
	}
	return fmt.Sprintf("Item %s is now %s", item.ID, item.Status), nil
}

func (s *Server) handleStats(ctx context.Context, args struct{}) (any, error) {
	stats, err := s.itemSvc.Stats()
	if err != nil {
		return nil, mcpErr("Failed to compute stats.")
	}
	return stats, nil
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}
