// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import "strings"

// stopwordList is the set of English function words excluded from the
// vocabulary. Standard information-retrieval stop list.
var stopwordList = []string{
	"a", "about", "above", "after", "again", "against", "all", "almost",
	"alone", "along", "already", "also", "although", "always", "am", "among",
	"an", "and", "another", "any", "anyone", "anything", "anywhere", "are",
	"around", "as", "at", "back", "be", "became", "because", "become",
	"becomes", "been", "before", "behind", "being", "below", "between",
	"both", "but", "by", "can", "cannot", "could", "did", "do", "does",
	"doing", "done", "down", "during", "each", "either", "else", "enough",
	"even", "ever", "every", "everyone", "everything", "everywhere", "few",
	"find", "first", "for", "former", "from", "further", "had", "has",
	"have", "having", "he", "hence", "her", "here", "hers", "herself",
	"him", "himself", "his", "how", "however", "i", "if", "in", "indeed",
	"instead", "into", "is", "it", "its", "itself", "just", "last", "latter",
	"least", "less", "like", "made", "many", "may", "me", "meanwhile",
	"might", "mine", "more", "moreover", "most", "mostly", "much", "must",
	"my", "myself", "namely", "neither", "never", "nevertheless", "next",
	"no", "nobody", "none", "nor", "not", "nothing", "now", "nowhere", "of",
	"off", "often", "on", "once", "one", "only", "onto", "or", "other",
	"others", "otherwise", "our", "ours", "ourselves", "out", "over", "own",
	"per", "perhaps", "please", "rather", "same", "several", "she", "should",
	"since", "so", "some", "somehow", "someone", "something", "sometimes",
	"somewhere", "still", "such", "than", "that", "the", "their", "theirs",
	"them", "themselves", "then", "thence", "there", "thereafter", "thereby",
	"therefore", "therein", "these", "they", "this", "those", "though",
	"through", "throughout", "thus", "to", "together", "too", "toward",
	"towards", "under", "until", "up", "upon", "us", "very", "was", "we",
	"well", "were", "what", "whatever", "when", "whence", "whenever",
	"where", "whereas", "whereby", "wherein", "whether", "which", "while",
	"who", "whoever", "whole", "whom", "whose", "why", "will", "with",
	"within", "without", "would", "yet", "you", "your", "yours", "yourself",
	"yourselves",
}

var stopwords = func() map[string]bool {
	m := make(map[string]bool, len(stopwordList))
	for _, w := range stopwordList {
		m[w] = true
	}
	return m
}()

// isStopword reports whether the lower-cased token is a stop word.
func isStopword(tok string) bool {
	return stopwords[strings.ToLower(tok)]
}
