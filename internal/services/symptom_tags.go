package services

import "strings"

type symptomKeywordGroup struct {
	Tag   string
	Words []string
}

func symptomKeywordCatalog() []symptomKeywordGroup {
	return []symptomKeywordGroup{
		{Tag: "headache", Words: []string{"headache", "migraine", "head pain"}},
		{Tag: "nausea", Words: []string{"nausea", "queasy", "vomit"}},
		{Tag: "fatigue", Words: []string{"fatigue", "tired", "exhausted", "sleepy"}},
		{Tag: "dizziness", Words: []string{"dizzy", "vertigo", "lightheaded"}},
		{Tag: "mood", Words: []string{"sad", "anxious", "stressed", "depressed"}},
	}
}

// SymptomTags derives topic tags from free text by keyword matching.
// Tags come out in catalog order, at most one per topic.
func SymptomTags(text string) []string {
	lowered := strings.ToLower(text)
	tags := make([]string, 0)
	for _, group := range symptomKeywordCatalog() {
		for _, word := range group.Words {
			if strings.Contains(lowered, word) {
				tags = append(tags, group.Tag)
				break
			}
		}
	}
	return tags
}
