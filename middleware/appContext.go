package middleware

import (
	"message-search-backend/config"
	"message-search-backend/messages/repositories"

	"go.uber.org/zap"
)

// AppContext bundles all dependencies
type AppContext struct {
	Settings config.Settings
	Logger   *zap.Logger
	Cache    repositories.MessageCacheRepository
}
