package pipeline

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/xavierca1/lynkupro-api/internal/entity"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var statusLabels = map[entity.Status]string{
	entity.StatusNew:         "New",
	entity.StatusContacted:   "Contacted",
	entity.StatusQualified:   "Qualified",
	entity.StatusProposal:    "Proposal",
	entity.StatusNegotiation: "Negotiation",
	entity.StatusWon:         "Won",
	entity.StatusLost:        "Lost",
}

var statusColors = map[entity.Status]string{
	entity.StatusNew:         "#2196F3",
	entity.StatusContacted:   "#FF9800",
	entity.StatusQualified:   "#9C27B0",
	entity.StatusProposal:    "#00BCD4",
	entity.StatusNegotiation: "#FFC107",
	entity.StatusWon:         "#4CAF50",
	entity.StatusLost:        "#F44336",
}

var sourceLabels = map[entity.Source]string{
	entity.SourceWebsite:  "Website",
	entity.SourceReferral: "Referral",
	entity.SourceSocial:   "Social Media",
	entity.SourceEmail:    "Email",
	entity.SourcePhone:    "Phone",
	entity.SourceOther:    "Other",
}

var projectTypeLabels = map[entity.ProjectType]string{
	entity.ProjectResidential: "Residential",
	entity.ProjectCommercial:  "Commercial",
	entity.ProjectIndustrial:  "Industrial",
	entity.ProjectRenovation:  "Renovation",
	entity.ProjectOther:       "Other",
}

func StatusLabel(s entity.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func StatusColor(s entity.Status) string { return statusColors[s] }

func SourceLabel(s entity.Source) string {
	if l, ok := sourceLabels[s]; ok {
		return l
	}
	return string(s)
}

func ProjectTypeLabel(p entity.ProjectType) string {
	if l, ok := projectTypeLabels[p]; ok {
		return l
	}
	return string(p)
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders whole US dollars: 120000 -> "$120,000".
func FormatCurrency(amount float64) string {
	n := int64(math.Round(amount))
	if n < 0 {
		return printer.Sprintf("-$%d", -n)
	}
	return printer.Sprintf("$%d", n)
}

// FormatPhoneNumber formats ten-digit numbers as (XXX) XXX-XXXX and leaves
// anything else as given.
func FormatPhoneNumber(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if len(digits) != 10 {
		return phone
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}

// LeadAgeDays counts whole days since createdAt.
func LeadAgeDays(createdAt, now time.Time) int {
	if createdAt.IsZero() {
		return 0
	}
	d := now.Sub(createdAt)
	if d < 0 {
		d = -d
	}
	return int(d / (24 * time.Hour))
}

func FormatLeadAge(createdAt, now time.Time) string {
	days := LeadAgeDays(createdAt, now)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return plural(days, "day")
	case days < 30:
		return plural(days/7, "week")
	case days < 365:
		return plural(days/30, "month")
	default:
		return plural(days/365, "year")
	}
}

func plural(n int, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return printer.Sprintf("%d %s ago", n, unit)
}

// Initials takes the first letters of the first and last words, or the
// first two letters of a single word.
func Initials(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "?"
	case 1:
		r := []rune(parts[0])
		if len(r) > 2 {
			r = r[:2]
		}
		return strings.ToUpper(string(r))
	default:
		first := []rune(parts[0])[0]
		last := []rune(parts[len(parts)-1])[0]
		return string([]rune{unicode.ToUpper(first), unicode.ToUpper(last)})
	}
}
