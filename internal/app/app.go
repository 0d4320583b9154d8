// Package app wires gateways and services over one store.
package app

import (
	"github.com/rl1809/cims/internal/adapter/handler"
	"github.com/rl1809/cims/internal/adapter/storage"
	"github.com/rl1809/cims/internal/core/service"
	"github.com/rl1809/cims/internal/port"
)

func NewServices(store *storage.Store, events port.EventPublisher) handler.Services {
	users := storage.NewUserRepository(store)
	logs := storage.NewActivityLogRepository(store)
	categories := storage.NewCategoryRepository(store)
	items := storage.NewItemRepository(store)
	orders := storage.NewOrderRepository(store)
	orderItems := storage.NewOrderItemRepository(store)

	return handler.Services{
		Users:        service.NewUserService(users, logs, events),
		ActivityLogs: service.NewActivityLogService(logs, events),
		Categories:   service.NewCategoryService(categories, events),
		Items:        service.NewItemService(items, events),
		Orders:       service.NewOrderService(orders, orderItems, events),
		OrderItems:   service.NewOrderItemService(orderItems, items, events),
	}
}
