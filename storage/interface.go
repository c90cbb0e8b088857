package storage

import "context"

// SeenStore определяет общий интерфейс для хранилища идентификаторов
// уже обработанных событий. Отсутствие ранее сохраненного состояния
// трактуется как пустое множество.
type SeenStore interface {
	Load(ctx context.Context) (map[string]struct{}, error)
	Save(ctx context.Context, ids map[string]struct{}) error
	Close()
}
