package analysis

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"gagyebu/internal/core"
)

const (
	InsufficientDataMessage = "There is not enough data to analyze. Try asking a more specific question."

	categoryDetailLimit = 5
)

var (
	reviewShareThreshold    = decimal.NewFromInt(30)
	budgetIncreaseThreshold = decimal.NewFromInt(20)
)

const (
	TitleTrend    = "Spending trend summary"
	TitleCategory = "Category breakdown"
	TitlePattern  = "Spending patterns"
	TitleFeedback = "Suggestions"
)

type (
	Section struct {
		Title string
		Lines []string
	}

	// Summary is a titled list of text sections. NoData is set instead of
	// sections when the period had nothing to analyze.
	Summary struct {
		Sections []Section
		NoData   string
	}
)

func (s Summary) String() string {
	if s.NoData != "" {
		return s.NoData
	}
	blocks := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		if len(sec.Lines) == 0 {
			continue
		}
		blocks = append(blocks, "**"+sec.Title+"**\n"+strings.Join(sec.Lines, "\n"))
	}
	if len(blocks) == 0 {
		return InsufficientDataMessage
	}
	return strings.Join(blocks, "\n\n")
}

// Section returns the section with the given title.
func (s Summary) Section(title string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Title == title {
			return sec, true
		}
	}
	return Section{}, false
}

// Summarize answers a free-text query about [start, end] with a fixed set
// of sections: trend, category breakdown, patterns and suggestions. Which
// optional sections and lines appear depends on the trigger words found in
// the query.
func Summarize(ds core.Dataset, start, end core.Date, query string) Summary {
	cmp, err := Compare(ds, start, end)
	if err != nil {
		return Summary{NoData: NoDataMessage(err)}
	}
	intent := ParseQuery(query)

	var sections []Section
	for _, sec := range []Section{
		{Title: TitleTrend, Lines: trendLines(cmp)},
		{Title: TitleCategory, Lines: categoryLines(cmp, intent)},
		{Title: TitlePattern, Lines: patternLines(cmp, intent)},
		{Title: TitleFeedback, Lines: feedbackLines(cmp)},
	} {
		if len(sec.Lines) > 0 {
			sections = append(sections, sec)
		}
	}
	return Summary{Sections: sections}
}

func trendLines(cmp Comparison) []string {
	line := fmt.Sprintf("Total spending for the period was %s, a daily average of about %s.",
		core.FormatWon(cmp.Current.Total), core.FormatWon(cmp.DailyAverage))
	switch cmp.TotalDelta.Status {
	case DeltaOK:
		line += " " + changeSentence(cmp.TotalDelta.Percent)
	case DeltaNoPreviousSpend:
		line += " There was no spending in the previous period, so no comparable previous-period data is available."
	default:
		line += " No comparable previous-period data is available."
	}
	return []string{line}
}

func changeSentence(pct decimal.Decimal) string {
	switch pct.Sign() {
	case 1:
		return fmt.Sprintf("That is up %s compared with the previous period.", core.FormatPercent(pct))
	case -1:
		return fmt.Sprintf("That is down %s compared with the previous period.", core.FormatPercent(pct.Abs()))
	}
	return "That is unchanged compared with the previous period."
}

func categoryLines(cmp Comparison, intent Intent) []string {
	if !intent.wantsCategoryDetail() {
		return nil
	}
	focus := intent.Categories
	if len(focus) == 0 {
		for _, cc := range cmp.Categories {
			focus = append(focus, cc.Category)
		}
	}
	var lines []string
	for _, c := range focus {
		cc, ok := cmp.Category(c)
		if !ok {
			continue
		}
		line := fmt.Sprintf("%s: %s, %s of total", cc.Category, core.FormatWon(cc.Current), core.FormatPercent(cc.Share))
		switch cc.Delta.Status {
		case DeltaOK:
			line += ", " + deltaPhrase(cc.Delta.Percent, "%") + " vs previous period"
		case DeltaNew:
			line += ", new spending vs previous period"
		}
		lines = append(lines, line)
		if len(lines) == categoryDetailLimit {
			break
		}
	}
	return lines
}

// deltaPhrase renders "up 12.0%", "down 3.5%" or "unchanged" with the given unit.
func deltaPhrase(pct decimal.Decimal, unit string) string {
	v := pct.Abs().StringFixed(1) + unit
	switch pct.Sign() {
	case 1:
		return "up " + v
	case -1:
		return "down " + v
	}
	return "unchanged"
}

func patternLines(cmp Comparison, intent Intent) []string {
	var lines []string
	if len(cmp.Categories) > 0 {
		top := cmp.Categories[0]
		lines = append(lines, fmt.Sprintf("%s takes the largest share at %s of total spending.",
			top.Category, core.FormatPercent(top.Share)))
	}
	if intent.Frequency {
		line := fmt.Sprintf("Single-item purchases made up %s of transactions", core.FormatPercent(cmp.SingleUnitRatio))
		if cmp.HasPrevious() {
			diff := cmp.SingleUnitRatio.Sub(cmp.PreviousSingleUnitRatio)
			if diff.IsZero() {
				line += ", unchanged from the previous period"
			} else {
				line += ", " + deltaPhrase(diff, " points") + " from the previous period"
			}
		}
		lines = append(lines, line+".")
	}
	if len(cmp.TopItems) > 0 && (intent.Frequency || intent.wantsCategoryDetail() || intent.Trend) {
		parts := make([]string, 0, len(cmp.TopItems))
		for _, it := range cmp.TopItems {
			parts = append(parts, fmt.Sprintf("%s (%dx, %s)", it.Name, it.Count, core.FormatWon(it.Total)))
		}
		lines = append(lines, "Top items: "+strings.Join(parts, ", "))
	}
	return lines
}

func feedbackLines(cmp Comparison) []string {
	var lines []string
	if cmp.Current.Total.IsPositive() {
		for _, cc := range cmp.Categories {
			if cc.Share.GreaterThanOrEqual(reviewShareThreshold) {
				lines = append(lines, fmt.Sprintf("%s makes up %s of spending. Review whether these purchases are necessary or could be replaced.",
					cc.Category, core.FormatPercent(cc.Share)))
			}
			if cc.Delta.Computable() && cc.Delta.Percent.GreaterThanOrEqual(budgetIncreaseThreshold) {
				lines = append(lines, fmt.Sprintf("%s spending rose %s compared with the previous period. Check the cause and consider setting a budget cap.",
					cc.Category, core.FormatPercent(cc.Delta.Percent)))
			}
		}
	}
	if cmp.DailyAverage.IsPositive() {
		lines = append(lines, fmt.Sprintf("With a daily average of %s, adjust your weekly or monthly budget to match or set spending alerts.",
			core.FormatWon(cmp.DailyAverage)))
	}
	if len(lines) == 0 {
		lines = append(lines, "Spending looks stable. Still, check periodically for items with unusually large purchases.")
	}
	return dedupe(lines)
}

func dedupe(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := lines[:0]
	for _, l := range lines {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
