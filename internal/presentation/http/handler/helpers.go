package handler

import (
	"strconv"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/application/service"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return nil
	}
	return &userID
}

// GetUserName extracts the display name of the authenticated user
func GetUserName(c *gin.Context) string {
	return c.GetString(middleware.ContextUserName)
}

// GetCashier returns the authenticated user as the cashier issuing bills
func GetCashier(c *gin.Context) (service.Cashier, bool) {
	userID := GetUserID(c)
	if userID == nil {
		return service.Cashier{}, false
	}
	return service.Cashier{ID: *userID, Name: GetUserName(c)}, true
}

// parseBillID reads the :id path parameter
func parseBillID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
