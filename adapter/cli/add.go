package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Quick add a task with natural language",
	Long: `Quickly add a task by describing it.

Words that set a property are taken out of the title:
- Due date: today, tomorrow, next week, a weekday (optionally after
  "by", "on" or "next"), or YYYY-MM-DD
- Priority: low, medium, high, urgent, or ! (medium) and !! (high)
- Estimate: 30m, 45min, 1h, 1.5h, 2hours

Examples:
  cadence add "Buy groceries tomorrow"
  cadence add "Finish report by friday high 2h"
  cadence add "Call the bank today !!"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		parsed := ParseQuickAdd(strings.Join(args, " "), time.Now())
		if parsed.Title == "" {
			return fmt.Errorf("nothing left for a title in %q", strings.Join(args, " "))
		}

		createCmd := commands.CreateTaskCommand{
			UserID:          app.CurrentUserID,
			Title:           parsed.Title,
			Priority:        parsed.Priority,
			EstimateMinutes: int(parsed.Estimate / time.Minute),
			DueDate:         parsed.Due,
		}
		result, err := app.CreateTaskHandler.Handle(cmd.Context(), createCmd)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task created: %s\n", ShortID(result.TaskID))
		fmt.Fprintf(out, "  title: %s\n", parsed.Title)
		if parsed.Priority != "" {
			fmt.Fprintf(out, "  priority: %s\n", parsed.Priority)
		}
		if parsed.Estimate > 0 {
			fmt.Fprintf(out, "  estimate: %d minutes\n", createCmd.EstimateMinutes)
		}
		if parsed.Due != nil {
			fmt.Fprintf(out, "  due: %s\n", parsed.Due.Format("Mon, Jan 2 2006"))
		}
		return nil
	},
}

// QuickAdd is a task description split into its properties.
type QuickAdd struct {
	Title    string
	Priority string
	Estimate time.Duration
	// Due is the end of the named day.
	Due *time.Time
}

var (
	estimatePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(m|min|mins|minutes?|h|hrs?|hours?)$`)
	priorityWords   = map[string]string{
		"low":    "low",
		"medium": "medium",
		"high":   "high",
		"urgent": "high",
		"!":      "medium",
		"!!":     "high",
		"!!!":    "high",
	}
	weekdayWords = map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
)

// ParseQuickAdd scans words left to right; the first match of each kind
// wins and later ones stay in the title.
func ParseQuickAdd(input string, now time.Time) QuickAdd {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	words := strings.Fields(input)

	var (
		q     QuickAdd
		title []string
		due   *time.Time
	)
	for i := 0; i < len(words); i++ {
		word := strings.ToLower(strings.Trim(words[i], ",."))
		next := ""
		if i+1 < len(words) {
			next = strings.ToLower(strings.Trim(words[i+1], ",."))
		}

		if q.Priority == "" {
			if p, ok := priorityWords[word]; ok {
				q.Priority = p
				if next == "priority" {
					i++
				}
				continue
			}
		}
		if q.Estimate == 0 {
			if d, ok := parseEstimate(word); ok {
				q.Estimate = d
				continue
			}
		}
		if due == nil {
			if word == "by" || word == "on" || word == "next" {
				if day, ok := dueWord(next, word == "next", today); ok {
					due = &day
					i++
					continue
				}
			}
			if day, ok := dueWord(word, false, today); ok {
				due = &day
				continue
			}
		}
		title = append(title, words[i])
	}

	q.Title = strings.Join(title, " ")
	if due != nil {
		end := due.AddDate(0, 0, 1).Add(-time.Minute)
		q.Due = &end
	}
	return q
}

func parseEstimate(word string) (time.Duration, bool) {
	m := estimatePattern.FindStringSubmatch(word)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	unit := time.Minute
	if strings.HasPrefix(m[2], "h") {
		unit = time.Hour
	}
	return time.Duration(value * float64(unit)).Round(time.Minute), true
}

// dueWord resolves one word to a day. Weekdays mean the next occurrence
// after today. afterNext marks "next <word>", which only combines with
// weekdays and "week".
func dueWord(word string, afterNext bool, today time.Time) (time.Time, bool) {
	if wd, ok := weekdayWords[word]; ok {
		days := (int(wd) - int(today.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return today.AddDate(0, 0, days), true
	}
	if afterNext {
		if word == "week" {
			return today.AddDate(0, 0, 7), true
		}
		return time.Time{}, false
	}
	switch word {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	}
	if day, err := time.ParseInLocation(DateLayout, word, today.Location()); err == nil {
		return day, true
	}
	return time.Time{}, false
}

func init() {
	rootCmd.AddCommand(addCmd)
}
