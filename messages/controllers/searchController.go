package controllers

import (
	"message-search-backend/messages/repositories"
	"message-search-backend/messages/services"
	"message-search-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

type SearchController struct {
	Cache  repositories.MessageCacheRepository
	Logger *zap.Logger
}

func NewSearchController(cache repositories.MessageCacheRepository, logger *zap.Logger) *SearchController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchController{Cache: cache, Logger: logger}
}

// SearchMessagesController serves GET /search?q=&page=&page_size=
func (sc *SearchController) SearchMessagesController(c *fiber.Ctx) error {
	params, err := pagination.ParsePaginationParams(c)
	if err != nil {
		return err
	}
	query := utils.CopyString(c.Query("q"))

	if sc.Cache == nil {
		sc.Logger.Error("Search requested without a message cache")
		return fiber.NewError(fiber.StatusInternalServerError, "Messages not loaded")
	}

	sc.Cache.EnsureWarm(c.UserContext())

	response, err := services.Search(sc.Cache.Snapshot(), query, params.Page, params.PageSize)
	if err != nil {
		return err
	}

	sc.Logger.Debug("Search served",
		zap.String("query", query),
		zap.Int("page", params.Page),
		zap.Int("page_size", params.PageSize),
		zap.Int("total", response.Total),
	)
	return c.Status(fiber.StatusOK).JSON(response)
}
