package intent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"casesearch/pkg/models"
)

var (
	yearRE      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	monthNames  = []string{"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december"}
)

// ExtractDateWindow returns {fromDate, toDate} formatted D-M-YYYY. A bare year
// yields a full-year window; a month+year yields a month window (1..last day);
// no year yields an empty window.
func ExtractDateWindow(cleaned string) models.DateWindow {
	lower := strings.ToLower(cleaned)
	yearMatch := yearRE.FindString(lower)
	if yearMatch == "" {
		return models.DateWindow{}
	}
	year, err := strconv.Atoi(yearMatch)
	if err != nil {
		return models.DateWindow{}
	}

	monthIdx := -1
	for i, m := range monthNames {
		if strings.Contains(lower, m) {
			monthIdx = i + 1
			break
		}
	}

	if monthIdx == -1 {
		return models.DateWindow{
			FromDate: fmt.Sprintf("1-1-%d", year),
			ToDate:   fmt.Sprintf("31-12-%d", year),
		}
	}

	lastDay := lastDayOfMonth(year, monthIdx)
	return models.DateWindow{
		FromDate: fmt.Sprintf("1-%d-%d", monthIdx, year),
		ToDate:   fmt.Sprintf("%d-%d-%d", lastDay, monthIdx, year),
	}
}

func lastDayOfMonth(year, month int) int {
	firstOfNext := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	lastOfMonth := firstOfNext.AddDate(0, 0, -1)
	return lastOfMonth.Day()
}
