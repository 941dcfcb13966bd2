package query

import "regexp"

var placeholderPattern = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)`)

// Placeholders возвращает имена параметров вида @name в порядке первого
// появления. Литералы и комментарии пропускаются.
func Placeholders(sql string) []string {
	code := Strip(sql)
	seen := make(map[string]struct{})
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(code, -1) {
		// @@ это оператор полнотекстового поиска, а не параметр
		if m[0] > 0 && code[m[0]-1] == '@' {
			continue
		}
		name := code[m[2]:m[3]]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Missing возвращает имена параметров из текста, для которых нет значения.
func Missing(sql string, params map[string]any) []string {
	var missing []string
	for _, name := range Placeholders(sql) {
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
