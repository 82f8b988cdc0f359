package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"geekseek/models"
	"geekseek/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// searchBody ist der Body von POST /sessions/:id/search.
type searchBody struct {
	Type string   `json:"type"`
	Q    string   `json:"q"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

func setupHealthRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// setupSearchRoutes konfiguriert die zustandslose Einzelsuche.
func setupSearchRoutes(router *gin.Engine, searchService *services.SearchService, log *zap.Logger) {
	router.GET("/geekseek", func(c *gin.Context) {
		mode := models.ModePlaces
		if t := c.Query("type"); t != "" {
			parsed, err := models.ParseSearchMode(t)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			mode = parsed
		}
		point, err := parsePoint(c.Query("lat"), c.Query("lng"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := searchService.Search(c.Request.Context(), services.SearchRequest{
			Mode:     mode,
			Query:    c.Query("q"),
			Location: point,
		})
		if err != nil {
			log.Debug("Search request failed", zap.String("mode", string(mode)), zap.Error(err))
			c.JSON(errorStatus(err), gin.H{"error": services.UserMessage(err)})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

// setupSessionRoutes konfiguriert die Suchsitzungen einer offenen Suchansicht.
func setupSessionRoutes(router *gin.Engine, searchService *services.SearchService, log *zap.Logger) {
	rg := router.Group("/sessions")

	rg.POST("", func(c *gin.Context) {
		var req struct {
			Type string `json:"type"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
				return
			}
		}
		mode := models.ModePlaces
		if req.Type != "" {
			parsed, err := models.ParseSearchMode(req.Type)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			mode = parsed
		}
		c.JSON(http.StatusCreated, searchService.CreateSession(mode))
	})

	rg.GET("/:id", func(c *gin.Context) {
		state, err := searchService.Session(c.Param("id"))
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": services.UserMessage(err)})
			return
		}
		c.JSON(http.StatusOK, state)
	})

	rg.PUT("/:id/mode", func(c *gin.Context) {
		var req struct {
			Type string `json:"type" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		mode, err := models.ParseSearchMode(req.Type)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		state, err := searchService.SetMode(c.Param("id"), mode)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": services.UserMessage(err)})
			return
		}
		c.JSON(http.StatusOK, state)
	})

	rg.POST("/:id/search", func(c *gin.Context) {
		id := c.Param("id")
		var body searchBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		req := services.SearchRequest{Query: body.Q}
		if body.Type != "" {
			mode, err := models.ParseSearchMode(body.Type)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			req.Mode = mode
		}
		if body.Lat != nil && body.Lng != nil {
			req.Location = &models.GeoPoint{Lat: *body.Lat, Lng: *body.Lng}
		}

		state, err := searchService.Submit(c.Request.Context(), id, req)
		if err != nil {
			log.Debug("Session search failed", zap.String("session", id), zap.Error(err))
			c.JSON(errorStatus(err), gin.H{"error": services.UserMessage(err), "state": state})
			return
		}
		c.JSON(http.StatusOK, state)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		if err := searchService.Close(c.Param("id")); err != nil {
			c.JSON(errorStatus(err), gin.H{"error": services.UserMessage(err)})
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func parsePoint(lat, lng string) (*models.GeoPoint, error) {
	lat, lng = strings.TrimSpace(lat), strings.TrimSpace(lng)
	if lat == "" && lng == "" {
		return nil, nil
	}
	if lat == "" || lng == "" {
		return nil, errors.New("lat and lng must be given together")
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, errors.New("invalid lat")
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return nil, errors.New("invalid lng")
	}
	return &models.GeoPoint{Lat: la, Lng: ln}, nil
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrEmptyQuery),
		errors.Is(err, services.ErrLocationRequired),
		errors.Is(err, models.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnknownSession):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
