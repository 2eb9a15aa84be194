package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// PromptDateLayout renders dates such as "April 01, 2025"
const PromptDateLayout = "January 02, 2006"

// NoEventsSentence is the exact sentence the model is told to use when it
// finds nothing, so callers can detect an empty search by substring match.
func NoEventsSentence(interestDescription, location string, timeframeDays int) string {
	return fmt.Sprintf("No specific events matching '%s' were found in %s for the next %d days.",
		interestDescription, location, timeframeDays)
}

// SearchWindow returns the first and last day of the search timeframe
func SearchWindow(currentDate time.Time, timeframeDays int) (time.Time, time.Time) {
	return currentDate, currentDate.AddDate(0, 0, timeframeDays)
}

// BuildEventSearchPrompt renders the web-search instructions sent to the
// model. The output depends only on its arguments.
func BuildEventSearchPrompt(location, interestDescription string, timeframeDays int, currentDate time.Time) string {
	start, end := SearchWindow(currentDate, timeframeDays)
	dateRange := fmt.Sprintf("%s and %s", start.Format(PromptDateLayout), end.Format(PromptDateLayout))
	city := strings.TrimSpace(strings.SplitN(location, ",", 2)[0])

	var prompt bytes.Buffer

	prompt.WriteString(fmt.Sprintf("Act as a helpful local event finder assistant for %s. ", location))
	prompt.WriteString("Your task is to find upcoming events based on a user's specific interest.\n\n")

	prompt.WriteString(fmt.Sprintf("**Location Focus:** %s (and immediately surrounding areas if relevant).\n", location))
	prompt.WriteString(fmt.Sprintf("**Timeframe:** Events happening between %s.\n", dateRange))
	prompt.WriteString(fmt.Sprintf("**User's Interest:** Find events related to \"%s\". ", interestDescription))
	prompt.WriteString("Interpret this interest broadly but accurately. ")
	prompt.WriteString("For example, if the interest is 'live acoustic music', look for concerts, open mic nights, coffee shop performances etc. ")
	prompt.WriteString("If it's 'volunteer gardening', look for park cleanups, community garden work days, planting events etc.\n\n")

	prompt.WriteString("**Instructions:**\n")
	prompt.WriteString(fmt.Sprintf("1. **Use your web search capability extensively** to scan local news sites, city websites (%s city website), ", city))
	prompt.WriteString(fmt.Sprintf("community calendars, park districts, libraries, Facebook events (if accessible), Eventbrite, and other relevant online sources for %s.\n", location))
	prompt.WriteString(fmt.Sprintf("2. Filter the search results to find events that strongly match the user's interest: \"%s\".\n", interestDescription))
	prompt.WriteString("3. For each matching event found, extract and list the following information clearly:\n")
	prompt.WriteString("   * Event Name/Title\n")
	prompt.WriteString("   * Date(s) and Time(s) (if available)\n")
	prompt.WriteString("   * Specific Venue/Location (if available)\n")
	prompt.WriteString("   * A brief summary or description of the event and why it matches the interest.\n")
	prompt.WriteString("   * Source/Link where you found the information (if possible).\n")
	prompt.WriteString("4. Format the results as a clean, easy-to-read list (e.g., using Markdown bullet points or numbered lists).\n")
	prompt.WriteString("5. If you cannot find any events matching the criteria within the timeframe after searching, explicitly state that \"")
	prompt.WriteString(NoEventsSentence(interestDescription, location, timeframeDays))
	prompt.WriteString("\"\n")
	prompt.WriteString("6. Do not include events outside the specified timeframe.\n")
	prompt.WriteString("7. Do not invent events. Only list events based on your web search findings.\n\n")

	prompt.WriteString("Begin search and report your findings.\n")

	return prompt.String()
}
