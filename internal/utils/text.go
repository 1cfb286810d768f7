package utils

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

const wordsPerMinute = 200

// Slugify строит slug из заголовка: нижний регистр, транслитерация, дефисы.
func Slugify(title string) string {
	s := slug.Make(title)
	if s == "" {
		return "untitled"
	}
	return s
}

// SlugCandidate: base для attempt=0, иначе base-attempt.
func SlugCandidate(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(attempt)
}

// ReadingTime = ceil(слов / 200).
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// SplitTags принимает теги списком или строкой через запятую, убирает пустые и дубли.
func SplitTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		for _, t := range strings.Split(item, ",") {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
