package mocks

import (
	"github.com/joonggo/market-services/auctiongateway/internal/service"
	"github.com/stretchr/testify/mock"
)

type Notifier struct {
	mock.Mock
}

func (m *Notifier) Notify(event service.NotificationEvent) {
	m.Called(event)
}
