package activity

// Коды ошибок валидации, которые попадают в поле errors.
const (
	CodeSearchTermBlank = "search_term_blanks"
	CodeBlankUserHandle = "blank_user_handle"
)

// Record одна запись ленты в виде JSON-объекта.
type Record = map[string]any

// Envelope результат обработчика: заполнено ровно одно из полей.
type Envelope struct {
	Data   []Record `json:"data"`
	Errors []string `json:"errors"`
}

// Success оборачивает записи. Пустой результат кодируется как [], а не null.
func Success(records []Record) Envelope {
	if records == nil {
		records = []Record{}
	}
	return Envelope{Data: records}
}

// Failure оборачивает коды ошибок валидации.
func Failure(codes ...string) Envelope {
	return Envelope{Errors: append([]string{}, codes...)}
}

// OK сообщает, что конверт содержит данные.
func (e Envelope) OK() bool {
	return e.Errors == nil
}
