package domain

// Identity — проверенная личность продавца, извлечённая из подписанного токена.
// Неизменяема в пределах одного запроса; не сохраняется в хранилище.
type Identity struct {
	ID      string
	Email   string
	Name    string
	Surname string
}
