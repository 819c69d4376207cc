package categorize

// financeKeywords mark money-movement operations: transfers, top-ups and
// cash handling. Matched case-insensitively as substrings of the
// description.
var financeKeywords = []string{
	"перевод",
	"пополнение",
	"снятие",
	"внесение",
	"зачисление",
	"банкомат",
	"сбп",
	"вклад",
}

// Prototype pairs a category label with the phrase whose embedding
// represents it.
type Prototype struct {
	Label string
	Text  string
}

// categoryPrototypes are embedded once per process and matched against
// description embeddings by cosine similarity. Order is fixed so prototype
// vectors and labels stay aligned.
var categoryPrototypes = []Prototype{
	{"Супермаркеты", "покупка продуктов в супермаркете, магазин продуктов, гипермаркет"},
	{"Рестораны и кафе", "ресторан, кафе, бар, доставка еды, фастфуд"},
	{"Транспорт", "такси, метро, автобус, проезд, каршеринг"},
	{"АЗС", "заправка автомобиля, бензин, азс, топливо"},
	{"Связь и интернет", "мобильная связь, интернет, телефон, оператор связи"},
	{"Коммунальные платежи", "коммунальные услуги, квартплата, электричество, вода, жкх"},
	{"Аптеки", "аптека, лекарства, медикаменты"},
	{"Медицина", "клиника, врач, анализы, стоматология, медицинские услуги"},
	{"Одежда и обувь", "одежда, обувь, магазин одежды"},
	{"Развлечения", "кино, театр, концерт, развлечения, игры"},
	{"Подписки и сервисы", "подписка на онлайн сервис, стриминг, музыка, облачное хранилище"},
	{"Красота", "салон красоты, парикмахерская, косметика"},
	{"Спорт", "фитнес, спортзал, спортивные товары"},
	{"Путешествия", "отель, авиабилеты, путешествие, бронирование"},
	{"Образование", "курсы, обучение, книги, образование"},
	{"Дом и ремонт", "товары для дома, мебель, стройматериалы, ремонт"},
}
