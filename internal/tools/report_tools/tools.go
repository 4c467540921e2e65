package report_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calaudit/internal/calendar"
	"github.com/teemow/calaudit/internal/criteria"
	"github.com/teemow/calaudit/internal/report"
	"github.com/teemow/calaudit/internal/server"
	"github.com/teemow/calaudit/internal/tools/common"
	"github.com/teemow/calaudit/internal/timeline"
)

// RegisterReportTools registers all report-related tools with the MCP server
func RegisterReportTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	dayBlocksTool := mcp.NewTool("report_day_blocks",
		mcp.WithDescription("Build the gap-filled busy/free workday timeline for the audited users on one date. Returns CSV."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Target date in YYYY-MM-DD format"),
		),
		mcp.WithString("users",
			mcp.Description("Comma-separated user email addresses. Defaults to the configured user list."),
		),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(dayBlocksTool, common.InstrumentedToolHandler("report_day_blocks", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDayBlocks(ctx, request, sc)
		}))

	checkDayTool := mcp.NewTool("report_check_day",
		mcp.WithDescription("Audit the audited users' calendars for one workday: no long blocks, busy enough. Returns CSV with one verdict row per user."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Target date in YYYY-MM-DD format"),
		),
		mcp.WithString("users",
			mcp.Description("Comma-separated user email addresses. Defaults to the configured user list."),
		),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(checkDayTool, common.InstrumentedToolHandler("report_check_day", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckDay(ctx, request, sc)
		}))

	compareDaysTool := mcp.NewTool("report_compare_days",
		mcp.WithDescription("Audit two workdays together: no long blocks, the earlier day mostly planned, the later day roughed out. Returns CSV with one verdict row per user."),
		mcp.WithString("day1",
			mcp.Required(),
			mcp.Description("First target date in YYYY-MM-DD format"),
		),
		mcp.WithString("day2",
			mcp.Required(),
			mcp.Description("Second target date in YYYY-MM-DD format, distinct from day1"),
		),
		mcp.WithString("users",
			mcp.Description("Comma-separated user email addresses. Defaults to the configured user list."),
		),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(compareDaysTool, common.InstrumentedToolHandler("report_compare_days", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCompareDays(ctx, request, sc)
		}))

	return nil
}

// getCalendarClient retrieves or creates a calendar client for the specified account
func getCalendarClient(ctx context.Context, account string, sc *server.ServerContext) (*calendar.Client, error) {
	client := sc.CalendarClientForAccount(account)
	if client == nil {
		if !calendar.HasTokenForAccount(account) {
			authURL := calendar.GetAuthURLForAccount(account)
			return nil, fmt.Errorf(`Google OAuth token not found for account "%s". To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant read-only access to Google Calendar
4. Copy the authorization code

5. Provide the authorization code to your AI agent
   The agent will use the google_save_auth_code tool with account="%s" to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, authURL, account)
		}

		var err error
		client, err = calendar.NewClientForAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Calendar client for account %s: %w", account, err)
		}
		sc.SetCalendarClientForAccount(account, client)
	}
	return client, nil
}

// resolveUsers returns the audited users: an explicit comma-separated
// argument wins, otherwise the configured user list is used.
func resolveUsers(args map[string]interface{}, sc *server.ServerContext) ([]string, error) {
	if usersVal, ok := args["users"].(string); ok && usersVal != "" {
		var users []string
		for _, u := range strings.Split(usersVal, ",") {
			if u = strings.TrimSpace(u); u != "" {
				users = append(users, u)
			}
		}
		if len(users) > 0 {
			return users, nil
		}
	}
	if cfg := sc.Config(); cfg != nil && len(cfg.Users) > 0 {
		return cfg.Users, nil
	}
	return nil, fmt.Errorf("no users given and no users configured")
}

func parseDateArg(args map[string]interface{}, key string) (timeline.Date, error) {
	val, ok := args[key].(string)
	if !ok || val == "" {
		return timeline.Date{}, fmt.Errorf("%s is required", key)
	}
	date, err := timeline.ParseDate(val)
	if err != nil {
		return timeline.Date{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return date, nil
}

// newRunner builds a report runner from the server configuration and the
// account's calendar client.
func newRunner(ctx context.Context, args map[string]interface{}, sc *server.ServerContext) (*report.Runner, error) {
	account := common.GetAccountFromArgs(args)
	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return nil, err
	}

	cfg := sc.Config()
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid configured timezone: %w", err)
	}

	return report.NewRunner(client, report.Options{
		Workday:    cfg.Workday(),
		Location:   loc,
		Thresholds: criteria.DefaultThresholds(),
		Metrics:    sc.Metrics(),
	})
}

func handleDayBlocks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	date, err := parseDateArg(args, "date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	users, err := resolveUsers(args, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	runner, err := newRunner(ctx, args, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rep, err := runner.Blocks(ctx, users, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build day blocks: %v", err)), nil
	}

	var sb strings.Builder
	if err := report.WriteBlocksCSV(&sb, rep); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize report: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func handleCheckDay(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	date, err := parseDateArg(args, "date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	users, err := resolveUsers(args, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	runner, err := newRunner(ctx, args, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rep, err := runner.CheckDay(ctx, users, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to check day: %v", err)), nil
	}

	var sb strings.Builder
	if err := report.WriteVerdictsCSV(&sb, rep); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize report: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func handleCompareDays(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	day1, err := parseDateArg(args, "day1")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day2, err := parseDateArg(args, "day2")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	users, err := resolveUsers(args, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	runner, err := newRunner(ctx, args, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rep, err := runner.CompareDays(ctx, users, day1, day2)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compare days: %v", err)), nil
	}

	var sb strings.Builder
	if err := report.WriteVerdictsCSV(&sb, rep); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize report: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}
