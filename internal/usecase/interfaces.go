package usecase

import (
	"context"
	"io"

	"physevents/internal/domain"
)

// FeedFetcher определяет интерфейс для загрузки документов лент из внешних
// источников. Возвращает io.ReadCloser, который должен быть закрыт после
// использования.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FeedParser определяет интерфейс для парсинга документа ленты в доменную модель.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader) (*domain.Feed, error)
}

// EventEnricher дополняет событие данными со страницы события.
// Ошибки обогащения мягкие и остаются внутри реализации.
type EventEnricher interface {
	Enrich(ctx context.Context, ev *domain.Event)
}
