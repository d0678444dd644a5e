package services

import (
	"context"
	"mime/multipart"

	"cart-shop/models"
)

//go:generate mockgen -destination=mocks/mock_ports.go -package=mocks cart-shop/services EventPublisher,Notifier,AvatarStorage

// EventPublisher emits domain events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, key string, eventType string, payload any) error
}

// Notifier tells a customer about their order.
type Notifier interface {
	OrderPlaced(ctx context.Context, to string, order *models.Order) error
}

type AvatarStorage interface {
	Save(ctx context.Context, header *multipart.FileHeader) (string, error)
}

type noopNotifier struct{}

func (noopNotifier) OrderPlaced(ctx context.Context, to string, order *models.Order) error {
	return nil
}
