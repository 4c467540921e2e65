// Package report_tools provides the MCP tools for calendar hygiene reports.
//
// Three tools are registered:
//   - report_day_blocks: the gap-filled busy/free timeline for one workday
//   - report_check_day: the single-day pass/fail audit
//   - report_compare_days: the two-day planning-horizon audit
//
// Each tool resolves the audited users from an explicit argument or from the
// configured user list, runs the report, and returns the result as CSV text.
package report_tools
