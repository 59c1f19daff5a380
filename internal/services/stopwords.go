package services

// stopWords is the fixed exclusion set for topic extraction. Matching is
// exact-token and case-insensitive (tokens are lowercased before lookup).
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "have": {}, "has": {},
	"had": {}, "do": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"could": {}, "should": {}, "may": {}, "might": {}, "can": {}, "this": {},
	"that": {}, "these": {}, "those": {}, "a": {}, "an": {}, "as": {},
	"from": {}, "into": {}, "during": {}, "including": {}, "until": {},
	"against": {}, "among": {}, "throughout": {}, "despite": {},
	"towards": {}, "upon": {}, "concerning": {}, "about": {}, "like": {},
	"through": {}, "over": {}, "before": {}, "after": {}, "since": {},
	"within": {}, "under": {}, "without": {}, "between": {}, "behind": {},
	"beneath": {}, "beside": {}, "beyond": {}, "inside": {}, "outside": {},
	"above": {}, "below": {}, "up": {}, "down": {}, "out": {}, "off": {},
	"again": {}, "further": {}, "then": {}, "once": {}, "here": {},
	"there": {}, "when": {}, "where": {}, "why": {}, "how": {}, "all": {},
	"any": {}, "both": {}, "each": {}, "few": {}, "more": {}, "most": {},
	"other": {}, "some": {}, "such": {}, "no": {}, "nor": {}, "not": {},
	"only": {}, "own": {}, "same": {}, "so": {}, "than": {}, "too": {},
	"very": {}, "you": {}, "your": {}, "yours": {}, "yourself": {},
	"yourselves": {}, "i": {}, "me": {}, "my": {}, "myself": {}, "we": {},
	"our": {}, "ours": {}, "ourselves": {}, "what": {}, "which": {},
	"who": {}, "whom": {}, "whose": {}, "whichever": {}, "whoever": {},
	"whomever": {}, "am": {}, "being": {}, "having": {}, "doing": {},
	"must": {}, "shall": {},
}
