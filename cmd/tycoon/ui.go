package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	cl "tycoon/internal/cli"
	"tycoon/internal/game"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

// promptIndex reads a 1-based menu choice and returns it zero-based.
func promptIndex(label string, n int) (int, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(text)
		if err != nil || v < 1 || v > n {
			printWarn(fmt.Sprintf("Pick a number from 1 to %d.", n))
			continue
		}
		return v - 1, nil
	}
}

// parseDollars turns "1234.5" into cents without float rounding.
func parseDollars(text string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(text), ",", ""), "$"))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", text)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative")
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

func formatCents(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%s.%02d", sign, comma(v/100), v%100)
}

func colorizeCents(v int64) string {
	text := formatCents(v)
	if v > 0 {
		text = "+" + text
	}
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		b.WriteByte(',')
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func statBar(v int) string {
	filled := v / 10
	bar := strings.Repeat("#", filled) + strings.Repeat(".", 10-filled)
	return fmt.Sprintf("[%s] %3d", bar, v)
}

func renderState(st game.GameState) {
	accent.Printf("\n== %s | Month %d (Year %d) | %s ==\n", st.CharacterID, st.Month, st.Year, st.Difficulty)
	nw := game.NetWorthParts(st)
	fmt.Printf("Cash:          %s\n", formatCents(st.Cash))
	fmt.Printf("Net Worth:     %s\n", colorizeCents(nw.NetWorth))
	fmt.Printf("Credit:        %d\n", st.CreditRating)
	fmt.Printf("Career:        %s (level %d) %s/mo\n", st.Career.Title, st.Career.Level, formatCents(st.Career.Salary))
	if st.Education.CurrentlyEnrolled != nil {
		e := st.Education.CurrentlyEnrolled
		fmt.Printf("Studying:      %s (%d months left)\n", e.EducationID, e.MonthsRemaining)
	}
	fmt.Printf("Economy:       %s\n", st.Economy.Phase)

	fmt.Println()
	accent.Println("Stats")
	fmt.Printf("  Happiness    %s\n", statBar(st.Stats.Happiness))
	fmt.Printf("  Health       %s\n", statBar(st.Stats.Health))
	fmt.Printf("  Energy       %s\n", statBar(st.Stats.Energy))
	fmt.Printf("  Stress       %s\n", statBar(st.Stats.Stress))
	fmt.Printf("  Networking   %s\n", statBar(st.Stats.Networking))
	fmt.Printf("  Financial IQ %s\n", statBar(st.Stats.FinancialIQ))

	if len(st.Assets) > 0 {
		fmt.Println()
		accent.Println("Assets")
		fmt.Printf("%-10s %-28s %-12s %14s\n", "ID", "NAME", "TYPE", "VALUE")
		for _, a := range st.Assets {
			fmt.Printf("%-10s %-28s %-12s %14s\n", a.ID, truncate(a.Name, 28), a.Type, formatCents(a.Value))
		}
	}
	debts := append(append([]game.Liability{}, st.Liabilities...), st.Mortgages...)
	if len(debts) > 0 {
		fmt.Println()
		accent.Println("Debts")
		fmt.Printf("%-10s %-28s %14s %8s %12s\n", "ID", "NAME", "BALANCE", "APR", "PAYMENT")
		for _, l := range debts {
			fmt.Printf("%-10s %-28s %14s %7.2f%% %12s\n", l.ID, truncate(l.Name, 28), formatCents(l.Balance), l.InterestRate*100, formatCents(l.MonthlyPayment))
		}
	}
	if len(st.ActiveSideHustles) > 0 {
		fmt.Println()
		accent.Println("Side Hustles")
		for _, h := range st.ActiveSideHustles {
			fmt.Printf("  %-20s %3d months  last %s\n", truncate(h.Name, 20), h.MonthsActive, formatCents(h.LastIncome))
		}
	}
	if st.PendingScenario != nil {
		fmt.Println()
		renderScenario(*st.PendingScenario)
	}
	fmt.Println()
}

func renderScenario(p game.PendingScenario) {
	warn.Printf("Decision needed: %s\n", p.Title)
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	for i, o := range p.Options {
		line := fmt.Sprintf("  %d) %s", i+1, o.Label)
		if o.MinCash > 0 {
			line += fmt.Sprintf(" (needs %s)", formatCents(o.MinCash))
		}
		fmt.Println(line)
	}
}

func renderReport(r game.MonthlyReport) {
	accent.Printf("\n-- Month %d report --\n", r.Month)
	fmt.Printf("Income:     %s salary, %s hustles, %s passive\n", formatCents(r.Salary+r.SpouseIncome), formatCents(r.HustleIncome), formatCents(r.PassiveIncome))
	fmt.Printf("Spending:   %s living, %s debt\n", formatCents(r.LivingCosts), formatCents(r.DebtPaid))
	fmt.Printf("Cash:       %s -> %s\n", formatCents(r.CashBefore), formatCents(r.CashAfter))
	fmt.Printf("Net worth:  %s (%s)\n", formatCents(r.NetWorthAfter), colorizeCents(r.NetWorthDelta))
	fmt.Printf("Credit:     %d (%+d)\n", r.CreditScore, r.CreditDelta)
	if r.Recession {
		danger.Println("The economy is in recession.")
	}
	for _, n := range r.Notes {
		fmt.Printf("  * %s\n", n)
	}
	if len(r.QuestsReady) > 0 {
		success.Printf("Quests ready to claim: %s\n", strings.Join(r.QuestsReady, ", "))
	}
	if r.Delinquent {
		danger.Println("You missed a payment.")
	}
}

func renderCashFlow(out cl.CashFlowReply) {
	e := out.Estimate
	accent.Println("\n== Monthly Cash Flow ==")
	fmt.Printf("Salary:            %s\n", formatCents(e.Salary))
	fmt.Printf("Spouse income:     %s\n", formatCents(e.SpouseIncome))
	fmt.Printf("Side hustles:      %s\n", formatCents(e.SideHustleIncome))
	fmt.Printf("Passive:           %s\n", formatCents(e.Passive))
	fmt.Printf("Lifestyle:        -%s\n", formatCents(e.LifestyleCost))
	fmt.Printf("Children:         -%s\n", formatCents(e.ChildrenExpenses))
	fmt.Printf("Vehicles:         -%s\n", formatCents(e.VehicleCosts))
	fmt.Printf("Debt payments:    -%s\n", formatCents(e.DebtPayments))
	fmt.Printf("Education:        -%s\n", formatCents(e.EducationPayment))
	fmt.Printf("Net:               %s\n\n", colorizeCents(out.Net))
}

func renderQuests(q cl.QuestsReply) {
	accent.Println("\n== Quests ==")
	if len(q.ReadyToClaim) > 0 {
		success.Println("Ready to claim")
		for _, p := range q.ReadyToClaim {
			fmt.Printf("  %-24s %s\n", p.QuestID, p.Quest.Title)
		}
	}
	if len(q.Active) == 0 {
		printInfo("No active quests.")
	}
	for _, p := range q.Active {
		fmt.Printf("  %-24s %-28s %5.0f%%  (%.0f / %.0f %s)\n", p.QuestID, truncate(p.Quest.Title, 28), p.Progress*100, p.Current, p.Target, p.Unit)
	}
	fmt.Printf("Completed: %d\n\n", len(q.Completed))
}

func renderContent(out cl.ContentReply) {
	groups := make([]string, 0, len(out.Content))
	for k := range out.Content {
		groups = append(groups, k)
	}
	sort.Strings(groups)
	for _, g := range groups {
		accent.Printf("\n%s\n", g)
		for _, e := range out.Content[g] {
			line := fmt.Sprintf("  %-26s %s", e.ID, e.Name)
			if e.Cost > 0 {
				line += "  " + formatCents(e.Cost)
			}
			if e.Mode != "" {
				line += "  [" + e.Mode + "]"
			}
			fmt.Println(line)
		}
	}
	fmt.Printf("\ncontent %s\n", truncate(out.Digest, 12))
}
