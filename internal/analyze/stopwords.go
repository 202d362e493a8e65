// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

// stopWords lists common English words and abstract boilerplate
// excluded from word-frequency tables. Only words of four or more
// characters appear; shorter ones never pass the length filter.
var stopWords = map[string]bool{
	"about": true, "after": true, "also": true, "among": true,
	"analysis": true, "associated": true, "back": true, "background": true,
	"based": true, "been": true, "before": true, "being": true,
	"between": true, "both": true, "compared": true,
	"conclusion": true, "conclusions": true, "could": true, "data": true,
	"does": true, "down": true, "during": true, "each": true,
	"effect": true, "effects": true, "findings": true, "from": true,
	"group": true, "groups": true, "have": true, "high": true,
	"higher": true, "however": true, "into": true, "level": true,
	"levels": true, "lower": true, "many": true,
	"method": true, "methods": true, "more": true, "most": true,
	"objective": true, "only": true, "other": true, "over": true,
	"patient": true, "patients": true, "rate": true, "respectively": true,
	"result": true, "results": true, "showed": true, "significant": true,
	"significantly": true, "studies": true, "study": true, "such": true,
	"than": true, "that": true, "their": true, "there": true,
	"these": true, "they": true, "this": true, "those": true,
	"total": true, "used": true, "using": true, "were": true,
	"what": true, "when": true, "which": true, "while": true,
	"with": true, "within": true, "without": true, "would": true,
	"years": true,
}
