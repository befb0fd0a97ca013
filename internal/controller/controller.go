package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pagination reads page/limit query parameters with sane bounds.
func pagination(ctx *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func splitQuery(ctx *gin.Context, name string) []string {
	values := ctx.QueryArray(name)
	if len(values) == 0 {
		if v := ctx.Query(name); v != "" {
			values = []string{v}
		}
	}
	return values
}
