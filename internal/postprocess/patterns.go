package postprocess

import "regexp"

// Entity categories. Every summary carries all of them, empty or not.
const (
	CategoryPerson       = "PERSON"
	CategoryOrganization = "ORGANIZATION"
	CategoryLocation     = "LOCATION"
	CategoryDate         = "DATE"
	CategoryTime         = "TIME"
	CategoryLaw          = "LAW"
	CategoryCaseNumber   = "CASE_NUMBER"
	CategoryAccused      = "ACCUSED"
	CategoryWitness      = "WITNESS"
)

// Categories lists the fixed category set in declaration order.
var Categories = []string{
	CategoryPerson,
	CategoryOrganization,
	CategoryLocation,
	CategoryDate,
	CategoryTime,
	CategoryLaw,
	CategoryCaseNumber,
	CategoryAccused,
	CategoryWitness,
}

// nerLabelAliases maps common model label spellings onto our categories.
var nerLabelAliases = map[string]string{
	"PER": CategoryPerson,
	"GPE": CategoryLocation,
	"LOC": CategoryLocation,
	"ORG": CategoryOrganization,
}

// Domain patterns over normalized text. Statute sections feed LAW; the
// capture group is the value recorded.
var (
	ipcSectionPattern  = regexp.MustCompile(`(?i)(?:IPC|Indian Penal Code)\s*(?:Section)?\s*(\d+[A-Z]?)`)
	crpcSectionPattern = regexp.MustCompile(`(?i)(?:CrPC|Criminal Procedure Code)\s*(?:Section)?\s*(\d+[A-Z]?)`)
	caseNumberPattern  = regexp.MustCompile(`(?i)(?:FIR|Case)\s*(?:No\.?|Number)?\s*:?\s*([A-Z0-9/-]+)`)
	datePattern        = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`)
	timePattern        = regexp.MustCompile(`\d{1,2}:\d{2}\s*(?:AM|PM|hrs)?`)
)

// Role heuristics: role-keyword-then-name and name-then-role-verb, matching
// capitalized multi-word name spans. Deliberately case-sensitive on the name.
var (
	accusedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:accused|defendant|respondent)\s+(?:named\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
		regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:is|was)\s+accused`),
	}
	witnessPatterns = []*regexp.Regexp{
		regexp.MustCompile(`witness(?:es)?\s+(?:named\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
		regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:witnessed|testified)`),
	}
)

// importanceKeywords is the fixed legal-importance list used for key-point
// ranking. Presence of each keyword adds one to a point's score.
var importanceKeywords = []string{
	"accused", "witness", "evidence", "section", "fir",
	"complaint", "theft", "assault", "murder", "case",
}

func captures(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if len(m) > 1 && m[1] != "" {
			out = append(out, m[1])
		}
	}
	return out
}
