package httpkit

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tenantify/tcore/ctxutil"
	"github.com/tenantify/tcore/logging"
	"github.com/tenantify/tcore/net/resp"
	"github.com/tenantify/tcore/paging"
)

// PageHandler returns a gin handler serving one resource's paginated list
// endpoint: parse parameters, run the page, write the envelope.
func PageHandler[T any](p *paging.Paginator[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		params, err := ParseParams(c)
		if err != nil {
			resp.Fail(c.Writer, resp.InvalidParam(err.Error()))
			return
		}

		ctx := ctxutil.WithGinContext(c.Request.Context(), c)
		result, err := p.Page(ctx, params)
		if err != nil {
			FailPage(c, err)
			return
		}

		resp.Success(c.Writer, result)
	}
}

// FailPage writes the failure envelope for a pagination error. Cursor and
// parameter problems are the client's fault; store failures are ours and the
// detail stays in the log.
func FailPage(c *gin.Context, err error) {
	ctx := ctxutil.WithGinContext(c.Request.Context(), c)
	switch {
	case errors.Is(err, paging.ErrInvalidCursor):
		resp.Fail(c.Writer, resp.InvalidCursor(err.Error()))
	case errors.Is(err, paging.ErrInvalidSortField),
		errors.Is(err, paging.ErrInvalidFilterField),
		errors.Is(err, paging.ErrInvalidFilterValue):
		resp.Fail(c.Writer, resp.InvalidParam(err.Error()))
	case errors.Is(err, paging.ErrStore):
		logging.Errorf(ctx, "page query failed: %v", err)
		resp.Fail(c.Writer, resp.DBQuery("query failed"))
	default:
		logging.Errorf(ctx, "page request failed: %v", err)
		resp.Fail(c.Writer, resp.InternalServer("internal error"))
	}
}
