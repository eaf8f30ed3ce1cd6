// Package httpkit binds paginated list endpoints onto gin: query-parameter
// parsing, error-to-envelope mapping and request middleware.
package httpkit

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tenantify/tcore/paging"
)

var validate = validator.New()

// pageQuery is the wire form of pagination parameters on a list request.
type pageQuery struct {
	Cursor        string `form:"cursor"`
	Limit         *int   `form:"limit"`
	Reverse       bool   `form:"reverse"`
	SortBy        string `form:"sort_by"`
	SortDirection string `form:"sort_direction" validate:"omitempty,oneof=asc desc"`
	Filters       string `form:"filters"`
	IncludeTotal  bool   `form:"include_total"`
}

// ParseParams reads pagination parameters from the request query string.
// An absent limit becomes paging.DefaultLimit; out-of-range limits are left
// for the engine to clamp. Filters arrive as a JSON object, e.g.
//
//	?filters={"status":{"op":"eq","value":"active"}}
func ParseParams(c *gin.Context) (paging.Params, error) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return paging.Params{}, fmt.Errorf("invalid query parameters: %w", err)
	}
	if err := validate.Struct(&q); err != nil {
		return paging.Params{}, fmt.Errorf("invalid query parameters: %w", err)
	}

	params := paging.Params{
		Cursor:        q.Cursor,
		Limit:         paging.DefaultLimit,
		Reverse:       q.Reverse,
		SortBy:        q.SortBy,
		SortDirection: paging.Direction(q.SortDirection),
		IncludeTotal:  q.IncludeTotal,
	}
	if q.Limit != nil {
		params.Limit = *q.Limit
	}

	if q.Filters != "" {
		var filters paging.Filters
		if err := json.Unmarshal([]byte(q.Filters), &filters); err != nil {
			return paging.Params{}, fmt.Errorf("invalid filters parameter: %w", err)
		}
		params.Filters = filters
	}

	return params, nil
}
