// Package template реализует подстановку переменных в текст скриптов.
// Переменные записываются в тексте как [Имя]; незаполненные остаются как есть.
package template

import (
	"regexp"
	"strings"
)

// variableRegex находит [Variable] в тексте скрипта
var variableRegex = regexp.MustCompile(`\[([^\]]+)\]`)

// ExtractVariables возвращает уникальные имена переменных в порядке их
// первого появления в тексте.
func ExtractVariables(text string) []string {
	matches := variableRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var variables []string
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		variables = append(variables, name)
	}
	return variables
}

// Render подставляет значения переменных в текст. Переменные без значения
// (или с пустым значением) остаются в тексте в исходном виде [Имя].
func Render(text string, values map[string]string) string {
	return variableRegex.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "["), "]")
		if value, ok := values[name]; ok && value != "" {
			return value
		}
		return match
	})
}

// HasVariables сообщает, содержит ли текст хотя бы одну переменную.
func HasVariables(text string) bool {
	return variableRegex.MatchString(text)
}
