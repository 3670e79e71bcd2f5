package notifier

import (
	"fmt"
	"html"
	"strings"

	"BreakoutSentinel/internal/model"
	"BreakoutSentinel/internal/recorder"
)

// maxListed caps per-section rows so a message stays under Telegram's size limit.
const maxListed = 20

// FormatRunSummary formats a pipeline run into a Telegram message.
func FormatRunSummary(res *model.RunResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>BreakoutSentinel</b> | %s\n\n", res.AsOf.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Universe: %d | Screened: %d | Passed: %d\n",
		len(res.Universe), len(res.Screens), len(res.Passed())))
	b.WriteString(fmt.Sprintf("Signals: %d\n", len(res.Fired())))

	if len(res.Executions) == 0 {
		b.WriteString("\nNo breakouts today.")
		return b.String()
	}

	b.WriteString("\n🚀 <b>Breakouts:</b>\n")
	for i, e := range res.Executions {
		if i == maxListed {
			b.WriteString(fmt.Sprintf("  … and %d more\n", len(res.Executions)-maxListed))
			break
		}
		b.WriteString(formatExecution(e))
	}
	return b.String()
}

func formatExecution(e model.ExecutionResult) string {
	sym := html.EscapeString(e.Symbol)
	if e.EntryPrice == nil {
		return fmt.Sprintf("  %s: %s\n", sym, e.Reasons.String())
	}
	line := fmt.Sprintf("  <b>%s</b> entry %.2f stop %.2f", sym, *e.EntryPrice, *e.StopPrice)
	if e.Valid && e.PositionSize != nil {
		line += fmt.Sprintf(" size %.0f", *e.PositionSize)
	} else {
		line += fmt.Sprintf(" ⚠️ %s", e.Reasons.String())
	}
	if e.ExitTrigger && e.ExitDate != nil {
		line += fmt.Sprintf(" | exited %.2f on %s", *e.ExitPrice, e.ExitDate.Format("2006-01-02"))
	}
	return line + "\n"
}

// FormatRecentSignals formats stored signals for the /signals command.
func FormatRecentSignals(records []recorder.SignalRecord) string {
	if len(records) == 0 {
		return "No signals recorded yet."
	}
	var b strings.Builder
	b.WriteString("📈 <b>Recent signals</b>\n\n")
	for _, r := range records {
		mark := "✅"
		if !r.Valid {
			mark = "⚠️"
		}
		b.WriteString(fmt.Sprintf("%s %s <b>%s</b> @ %.2f %s\n",
			r.AsOf.Format("2006-01-02"), mark, html.EscapeString(r.Symbol), r.EntryPrice, r.Status))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "🤖 <b>Commands</b>\n\n" +
		"/run - run the pipeline now\n" +
		"/signals - show recent signals\n" +
		"/last - repeat the last run summary\n" +
		"/help - show this message"
}
