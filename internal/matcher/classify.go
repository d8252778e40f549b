package matcher

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// maxBodyScan bounds how much extracted text is scanned for keywords.
const maxBodyScan = 64 << 10

// Signal is where a keyword matched, strongest first.
type Signal int

const (
	SignalTypeCode Signal = iota
	SignalTitle
	SignalBody
)

func (s Signal) String() string {
	switch s {
	case SignalTypeCode:
		return "type_code"
	case SignalTitle:
		return "title"
	default:
		return "body"
	}
}

// Rule maps a keyword family to the elements it suggests.
type Rule struct {
	Name     string
	Keywords []string
	Elements []int
}

// DefaultRules is the prioritized rule table; earlier rules win ties on the same element.
var DefaultRules = []Rule{
	{Name: "inspection", Keywords: []string{"inspection", "inspect", "walkthrough", "walk through"}, Elements: []int{9}},
	{Name: "incident", Keywords: []string{"incident", "accident", "near miss", "investigation", "injury report"}, Elements: []int{10}},
	{Name: "training", Keywords: []string{"training", "orientation", "competency", "toolbox talk", "certification"}, Elements: []int{5}},
	{Name: "hazard", Keywords: []string{"hazard", "risk assessment", "jha", "flha"}, Elements: []int{2, 3}},
	{Name: "ppe", Keywords: []string{"ppe", "protective equipment", "respirator"}, Elements: []int{6}},
	{Name: "maintenance", Keywords: []string{"maintenance", "equipment log", "service record", "lockout"}, Elements: []int{7}},
	{Name: "emergency", Keywords: []string{"emergency", "evacuation", "fire drill", "first aid"}, Elements: []int{8}},
	{Name: "procedure", Keywords: []string{"procedure", "sop", "safe work", "work practice"}, Elements: []int{4}},
	{Name: "leadership", Keywords: []string{"policy", "commitment", "leadership", "responsibilit"}, Elements: []int{1}},
	{Name: "committee", Keywords: []string{"committee", "jhsc", "meeting minutes"}, Elements: []int{11}},
	{Name: "contractor", Keywords: []string{"contractor", "subcontractor", "vendor"}, Elements: []int{12}},
	{Name: "records", Keywords: []string{"statistics", "kpi", "injury rate", "records"}, Elements: []int{13}},
	{Name: "review", Keywords: []string{"program review", "management review", "annual review", "internal audit"}, Elements: []int{14}},
}

// Match is a candidate element and the strongest signal that produced it.
type Match struct {
	Element int
	Signal  Signal
	Rule    string
}

// Classifier evaluates a rule table.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier over rules, or DefaultRules when rules is empty.
func NewClassifier(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// ClassifyCandidateElements returns the elements suggested by a type code and optional title.
// The result is advisory.
func ClassifyCandidateElements(documentTypeCode, title string) mapset.Set[int] {
	return NewClassifier(nil).CandidateElements(documentTypeCode, title)
}

// CandidateElements is ClassifyCandidateElements for this classifier's rules.
func (c *Classifier) CandidateElements(documentTypeCode, title string) mapset.Set[int] {
	out := mapset.NewThreadUnsafeSet[int]()
	for _, m := range c.Classify(documentTypeCode, title, "") {
		out.Add(m.Element)
	}
	return out
}

// Classify returns one match per element, keeping the strongest signal, ordered by element.
func (c *Classifier) Classify(documentTypeCode, title, body string) []Match {
	if len(body) > maxBodyScan {
		body = body[:maxBodyScan]
	}
	sources := []struct {
		signal Signal
		text   string
	}{
		{SignalTypeCode, normalize(documentTypeCode)},
		{SignalTitle, normalize(title)},
		{SignalBody, normalize(body)},
	}

	best := make(map[int]Match)
	for _, src := range sources {
		if src.text == "" {
			continue
		}
		for _, r := range c.rules {
			if !r.matches(src.text) {
				continue
			}
			for _, el := range r.Elements {
				if cur, ok := best[el]; ok && cur.Signal <= src.signal {
					continue
				}
				best[el] = Match{Element: el, Signal: src.signal, Rule: r.Name}
			}
		}
	}

	out := make([]Match, 0, len(best))
	for _, m := range best {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Element < out[j].Element })
	return out
}

// minSubstringKeyword is the shortest keyword matched anywhere inside a token.
// Shorter keywords are acronyms such as "ppe" or "sop" and must start a word.
const minSubstringKeyword = 5

func (r Rule) matches(text string) bool {
	for _, kw := range r.Keywords {
		if len(kw) < minSubstringKeyword {
			kw = " " + kw
		}
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// normalize lowercases, folds separators to spaces and pads with a leading space.
func normalize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s) + 1)
	b.WriteByte(' ')
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}
