package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyStatement возвращается для пустого SQL-текста.
	ErrEmptyStatement = errors.New("empty statement")
	// ErrMultipleStatements возвращается, если текст содержит больше одного запроса.
	ErrMultipleStatements = errors.New("multiple statements")
	// ErrForbiddenOperation возвращается для запросов, изменяющих данные или схему.
	ErrForbiddenOperation = errors.New("forbidden operation")
)

var forbiddenPattern = regexp.MustCompile(`(?i)\b(DROP|DELETE|UPDATE|INSERT|CREATE|ALTER|TRUNCATE|GRANT|REVOKE|MERGE|COPY)\b`)

// Validate проверяет, что SQL-текст является одним читающим запросом.
// Строковые литералы и комментарии не участвуют в проверке.
func Validate(sql string) error {
	code := Strip(sql)
	if strings.TrimSpace(code) == "" {
		return ErrEmptyStatement
	}

	if strings.Contains(strings.TrimRight(strings.TrimSpace(code), ";"), ";") {
		return ErrMultipleStatements
	}

	if m := forbiddenPattern.FindString(code); m != "" {
		return fmt.Errorf("%w: %s", ErrForbiddenOperation, strings.ToUpper(m))
	}
	return nil
}

// TrimTerminator убирает завершающие точки с запятой и пробелы,
// чтобы запрос можно было вложить в подзапрос.
func TrimTerminator(sql string) string {
	return strings.TrimRight(strings.TrimSpace(sql), "; \t\r\n")
}

// Strip заменяет строковые литералы, идентификаторы в кавычках и комментарии
// пробелами, сохраняя длину текста.
func Strip(sql string) string {
	out := []byte(sql)
	for i := 0; i < len(out); i++ {
		switch {
		case out[i] == '\'' || out[i] == '"':
			quote := out[i]
			j := i + 1
			for j < len(out) {
				if out[j] == quote {
					// удвоенная кавычка внутри литерала
					if j+1 < len(out) && out[j+1] == quote {
						j += 2
						continue
					}
					break
				}
				j++
			}
			blank(out, i, j)
			i = j
		case out[i] == '-' && i+1 < len(out) && out[i+1] == '-':
			j := i
			for j < len(out) && out[j] != '\n' {
				j++
			}
			blank(out, i, j-1)
			i = j
		case out[i] == '/' && i+1 < len(out) && out[i+1] == '*':
			end := strings.Index(string(out[i+2:]), "*/")
			j := len(out) - 1
			if end >= 0 {
				j = i + 2 + end + 1
			}
			blank(out, i, j)
			i = j
		}
	}
	return string(out)
}

func blank(b []byte, from, to int) {
	if to >= len(b) {
		to = len(b) - 1
	}
	for k := from; k <= to; k++ {
		if b[k] != '\n' {
			b[k] = ' '
		}
	}
}
