// Package mcc extracts merchant category codes from transaction
// descriptions and maps them to spending categories.
package mcc

import (
	"regexp"
	"strconv"
)

// Some exports put the MCC into the description, either tagged
// ("MCC 5411", "МСС: 5812") or as a bare four-digit code at the end of the
// merchant line.
var (
	taggedPattern = regexp.MustCompile(`(?i)(?:mcc|мсс)[\s:]*([0-9]{4})`)
	bareSuffix    = regexp.MustCompile(`\s([0-9]{4})\s*$`)
)

// Extract derives a merchant category code from the description, or nil
// when none is present. Deterministic over the input string.
func Extract(description string) *int {
	m := taggedPattern.FindStringSubmatch(description)
	if m == nil {
		m = bareSuffix.FindStringSubmatch(description)
	}
	if m == nil {
		return nil
	}
	code, err := strconv.Atoi(m[1])
	if err != nil || !known(code) {
		return nil
	}
	return &code
}

// categories maps MCC codes to spending category labels.
var categories = map[int]string{
	4111: "Транспорт",
	4121: "Транспорт",
	4131: "Транспорт",
	4784: "Транспорт",
	4814: "Связь и интернет",
	4899: "Связь и интернет",
	4900: "Коммунальные платежи",
	5411: "Супермаркеты",
	5422: "Супермаркеты",
	5451: "Супермаркеты",
	5499: "Супермаркеты",
	5541: "АЗС",
	5542: "АЗС",
	5651: "Одежда и обувь",
	5661: "Одежда и обувь",
	5691: "Одежда и обувь",
	5812: "Рестораны и кафе",
	5813: "Рестораны и кафе",
	5814: "Рестораны и кафе",
	5912: "Аптеки",
	5941: "Спорт",
	5942: "Книги",
	5977: "Красота",
	7230: "Красота",
	7832: "Развлечения",
	7922: "Развлечения",
	7994: "Развлечения",
	8011: "Медицина",
	8021: "Медицина",
	8062: "Медицина",
	8099: "Медицина",
}

func known(code int) bool {
	_, ok := categories[code]
	return ok
}

// Classify returns the category label for the code, or nil when the code
// is nil or unknown.
func Classify(code *int) *string {
	if code == nil {
		return nil
	}
	if label, ok := categories[*code]; ok {
		return &label
	}
	return nil
}
