package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"katha/internal/core"
	"katha/internal/ledger"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	cardStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(24)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	creditStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	debitStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 2)
	errorStyle     = statusStyle.Foreground(lipgloss.Color("9"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Katha ledger"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.svc != nil {
		body, err := m.renderBody()
		if err != nil {
			body = debitStyle.Render(err.Error())
		}
		b.WriteString(body)
		b.WriteString("\n\n")
	}

	status := statusStyle
	if m.statusErr {
		status = errorStyle
	}
	b.WriteString(status.Render(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/1-4 switch view · [ ] katha · f filter · r reload · q quit"))
	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for i, name := range tabNames {
		if tab(i) == m.tab {
			parts = append(parts, activeTabStyle.Render(name))
		} else {
			parts = append(parts, tabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderBody() (string, error) {
	switch m.tab {
	case tabLedger:
		return m.renderLedger()
	case tabKathas:
		return m.renderKathas()
	case tabInsights:
		return m.renderInsights()
	default:
		return m.renderDashboard()
	}
}

func (m Model) renderDashboard() (string, error) {
	d, err := m.svc.Dashboard(m.selected)
	if err != nil {
		return "", err
	}
	card := func(label string, cents int64) string {
		return cardStyle.Render(labelStyle.Render(label) + "\n" + signed(cents))
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total balance", d.Totals.TotalBalance.Cents),
		card("Deposits", d.Totals.TotalDeposits.Cents),
		card("Withdrawals", -d.Totals.TotalWithdrawals.Cents),
		card("Today", d.Totals.TodayNet.Cents),
	)
	header := fmt.Sprintf("%d kathas · %d entries · today %s", d.KathaCount, d.EntryCount, d.Today)
	if d.ActiveKathaName != "" {
		header += " · active " + titleStyle.Render(d.ActiveKathaName)
	}
	return header + "\n" + cards, nil
}

func (m Model) renderLedger() (string, error) {
	v, err := m.svc.Ledger(m.selected, ledger.LedgerFilter{Type: typeFilters[m.filter]})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s · filter %s · %d shown\n", labelStyle.Render(v.ActiveKathaID), v.Filter, v.Shown)
	if len(v.Days) == 0 {
		b.WriteString(labelStyle.Render("No entries match."))
		return b.String(), nil
	}
	for _, day := range v.Days {
		fmt.Fprintf(&b, "\n%s  %s\n", titleStyle.Render(day.Date), signed(day.Total.Cents))
		for _, e := range day.Items {
			line := fmt.Sprintf("  %-10s %-20s %s", e.Type, truncate(e.Category, 20), signed(e.Signed()))
			if e.Note != "" {
				line += "  " + labelStyle.Render(truncate(e.Note, 40))
			}
			b.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (m Model) renderKathas() (string, error) {
	v, err := m.svc.Kathas(m.selected)
	if err != nil {
		return "", err
	}
	if len(v.Kathas) == 0 {
		return labelStyle.Render("No kathas yet."), nil
	}
	var b strings.Builder
	for _, ov := range v.Kathas {
		marker := "  "
		if ov.Katha.ID == v.ActiveKathaID {
			marker = "> "
		}
		progress := "no goal"
		if ov.HasProgress {
			progress = fmt.Sprintf("%.0f%% of %s", ov.Progress, core.FormatINR(ov.Katha.GoalAmount.Cents))
		}
		fmt.Fprintf(&b, "%s%s\n    balance %s · this week %s · %s · %d members · %d entries\n",
			marker, titleStyle.Render(ov.Katha.Name),
			signed(ov.Balance.Cents), core.FormatINR(ov.WeeklyContribution.Cents),
			progress, ov.MemberCount, ov.EntryCount)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (m Model) renderInsights() (string, error) {
	v, err := m.svc.Insights(m.selected)
	if err != nil {
		return "", err
	}
	if v.Empty {
		return labelStyle.Render("Record a few entries to see insights."), nil
	}
	var b strings.Builder
	for _, h := range v.Highlights {
		fmt.Fprintf(&b, "%s\n  %s", titleStyle.Render(h.Title), h.Detail)
		if h.Caption != "" {
			b.WriteString("  " + labelStyle.Render(h.Caption))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func signed(cents int64) string {
	s := core.FormatINR(cents)
	if cents < 0 {
		return debitStyle.Render(s)
	}
	return creditStyle.Render(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
