package signal

import "github.com/helixbill/denialflow/internal/model"

// patternRow holds one cause's regular expression, compiled at construction.
type patternRow struct {
	cause model.DenialCause
	regex string
}

// patternTable is scanned in declaration order; the first cause whose regex
// matches wins. Expressions are made case-insensitive when compiled.
var patternTable = []patternRow{
	{model.CauseMissingAuthorization,
		`\b(prior|pre)[-\s]?auth\w*\b|\bauth(orization)?\s+(number\s+)?(missing|required|absent|not\s+(on\s+file|obtained))\b|\breferral\s+(required|missing|absent)\b`},
	{model.CauseInvalidCode,
		`\b(invalid|incorrect|inconsistent|obsolete)\s+(procedure|diagnosis|revenue|hcpcs)?\s*code\b|\bmodifier\s+(missing|invalid|inconsistent)\b|\bcode\s+(invalid|terminated|deleted)\b`},
	{model.CauseEligibilityIssue,
		`\b(not\s+)?eligib\w+\b|\bcoverage\s+(terminated|lapsed|not\s+in\s+effect)\b|\bmember\s+(id\s+)?not\s+found\b|\bno\s+active\s+coverage\b`},
	{model.CauseDuplicateClaim,
		`\b(exact\s+)?duplicate\b|\balready\s+(paid|adjudicated|processed|submitted)\b`},
	{model.CauseInsufficientDocumentation,
		`\b(missing|insufficient|incomplete|additional)\s+(documentation|records|information)\b|\bmedical\s+records?\s+(requested|required|needed)\b|\bitemized\s+bill\b`},
	{model.CauseMedicalNecessity,
		`\bnot\s+medically\s+necessary\b|\bmedical(ly)?\s+(necessity|unnecessary)\b|\black\s+of\s+(medical\s+)?necessity\b|\b(experimental|investigational)\b`},
	{model.CauseTimelyFiling,
		`\btimely\s+filing\b|\bfiling\s+(limit|deadline|window)\b|\bfiled?\s+(too\s+)?late\b|\bpast\s+the\s+(filing\s+)?(deadline|limit)\b`},
	{model.CauseCoordinationOfBenefits,
		`\bcoordination\s+of\s+benefits\b|\b(primary|secondary)\s+(payer|insurance|carrier)\b|\bother\s+(coverage|insurance)\s+(exists|on\s+file|primary)\b|\beob\s+from\s+(the\s+)?primary\b`},
}
