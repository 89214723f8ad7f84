package llm

import (
	"strings"
	"unicode"
)

// maxHashtags caps the hashtag set attached to a summary
const maxHashtags = 5

// newsKeywords is the fixed keyword list matched against summary words,
// Russian first then English, mirroring the news domains we post about
var newsKeywords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"новости", "новость", "события", "событие", "происшествие", "происшествия",
		"политика", "экономика", "спорт", "технологии", "технология", "наука",
		"здоровье", "медицина", "образование", "культура", "искусство",
		"news", "event", "events", "politics", "economy", "sport", "technology",
		"science", "health", "medicine", "education", "culture", "art",
	} {
		newsKeywords[w] = struct{}{}
	}
}

// defaultHashtags is returned when no keyword matches at all
var defaultHashtags = []string{"#новости", "#события"}

// ExtractHashtags derives up to maxHashtags hashtags from the text by
// matching cleaned lowercase words against the fixed keyword list. When
// nothing matches it returns the two default hashtags, so the result is
// never empty.
func ExtractHashtags(text string) []string {
	var hashtags []string

	for _, word := range strings.Fields(strings.ToLower(text)) {
		clean := cleanWord(word)
		if len([]rune(clean)) <= 3 {
			continue
		}
		if _, ok := newsKeywords[clean]; ok {
			hashtags = append(hashtags, "#"+clean)
		}
		if len(hashtags) == maxHashtags {
			break
		}
	}

	if len(hashtags) == 0 {
		return append([]string{}, defaultHashtags...)
	}
	return hashtags
}

// cleanWord strips everything but letters and digits
func cleanWord(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, word)
}
