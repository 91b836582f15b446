package domain

import (
	"fmt"
	"strings"

	"github.com/lifemap/diary/pkg/timeutil"
)

// Section headings of the exported text block. The wording is part of the
// user's archive format and must not drift.
const (
	headingReflection   = "# Story, Emotion, Gratitude, Reflection"
	headingLifeMap      = "# Life Map (Daily Architecture)"
	lifeMapCaptionOne   = "## In this section, I want to write down the daily routine active. Those actives would be a habit."
	lifeMapCaptionTwo   = "## These routine active should have a timer to follow. That's the concept of regular and discipline."
	headingWork         = "# work"
	headingGamification = "# Gamification Note"
	headingLongTerm     = "# personal long term plan"
	headingShortTerm    = "# personal short term plan"
	headingEnglish      = "# English practice"
	headingJapanese     = "# Japanese practice"
)

// Render maps a diary entry to its formatted plain-text block. Sections appear
// in a fixed order and any section whose text is empty is omitted entirely.
// The function is pure: copying the result to the clipboard is the caller's
// concern.
func Render(entry DiaryEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Date: %s, Consecutive Day: %d, Accumulated Count: %d\n\n",
		entry.FullDateString, entry.ConsecutiveDay, entry.AccumulatedCount)

	writeSection(&b, headingReflection, entry.Reflection)

	if entry.LifeMap != "" {
		b.WriteString(headingLifeMap + "\n")
		b.WriteString(lifeMapCaptionOne + "\n")
		b.WriteString(lifeMapCaptionTwo + "\n")
		b.WriteString(entry.LifeMap + "\n\n")
	}

	if len(entry.Work) > 0 {
		b.WriteString(headingWork + "\n")
		for _, item := range entry.Work {
			b.WriteString(item.Title + "\n")
			if item.Detail != "" {
				b.WriteString("  -> " + strings.ReplaceAll(item.Detail, "\n", "\n  -> ") + "\n\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	writeSection(&b, weekGoalsHeading(entry.Date), entry.WeekGoals)
	writeSection(&b, headingGamification, entry.GamificationNotes)
	writeSection(&b, headingLongTerm, entry.LongTermPlan)
	writeSection(&b, headingShortTerm, entry.ShortTermPlan)
	writeSection(&b, headingEnglish, entry.EnglishPractice)
	writeSection(&b, headingJapanese, entry.JapanesePractice)

	if entry.CustomNotes != "" {
		b.WriteString("# " + entry.CustomNotesTitle + "\n")
		b.WriteString(entry.CustomNotes)
	}

	return strings.TrimSpace(b.String())
}

// weekGoalsHeading embeds the ISO week number of the entry's date; a missing
// or malformed date falls back to the plain heading.
func weekGoalsHeading(date string) string {
	t, err := timeutil.ParseDate(date)
	if err != nil {
		return "# Week Goals & important plan"
	}
	return fmt.Sprintf("# Week Goals (W%d) & important plan", timeutil.ISOWeekNumber(t))
}

func writeSection(b *strings.Builder, heading, text string) {
	if text == "" {
		return
	}
	b.WriteString(heading + "\n")
	b.WriteString(text + "\n\n")
}
