// Package ctxutil carries request-scoped values across context.Context and
// *gin.Context: when a gin context is embedded, values are mirrored into both
// so handlers and plain functions see the same state.
package ctxutil

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tenantify/tcore/config"
)

const (
	ginContextKey = "gin_context"
	tenantIDKey   = "tenant_id"
	configKey     = "config"
	TraceIDKey    = "trace_id"
)

// FromGinContext extracts the context.Context from *gin.Context.
func FromGinContext(c *gin.Context) context.Context {
	return c.Request.Context()
}

// WithGinContext returns a context.Context that embeds the *gin.Context.
func WithGinContext(ctx context.Context, c *gin.Context) context.Context {
	return context.WithValue(ctx, ginContextKey, c)
}

// GetGinContext extracts *gin.Context from context.Context if it exists.
func GetGinContext(ctx context.Context) (*gin.Context, bool) {
	if c, ok := ctx.Value(ginContextKey).(*gin.Context); ok {
		return c, ok
	}
	return nil, false
}

// GetValue retrieves a value from the context.
func GetValue(ctx context.Context, key string) any {
	if c, ok := GetGinContext(ctx); ok {
		if val, exists := c.Get(key); exists {
			return val
		}
	}
	return ctx.Value(key)
}

// SetValue sets a value to the context.
func SetValue(ctx context.Context, key string, val any) context.Context {
	if c, ok := GetGinContext(ctx); ok {
		c.Set(key, val)
	}
	return context.WithValue(ctx, key, val)
}

// SetConfig sets config to context.Context.
func SetConfig(ctx context.Context, conf *config.Config) context.Context {
	return SetValue(ctx, configKey, conf)
}

// GetConfig gets config from context.Context.
func GetConfig(ctx context.Context) *config.Config {
	if conf, ok := GetValue(ctx, configKey).(*config.Config); ok {
		return conf
	}
	// Context does not contain config, load it from config.
	conf, err := config.GetConfig()
	if err != nil {
		return nil
	}
	return conf
}

// SetTenantID sets tenant id to context.Context.
func SetTenantID(ctx context.Context, id string) context.Context {
	return SetValue(ctx, tenantIDKey, id)
}

// GetTenantID gets tenant id from context.Context.
func GetTenantID(ctx context.Context) string {
	if id, ok := GetValue(ctx, tenantIDKey).(string); ok {
		return id
	}
	return ""
}

// GetTraceID gets trace id from context.Context or gin.Context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := GetValue(ctx, TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// SetTraceID sets trace id to context.Context and gin.Context if available.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return SetValue(ctx, TraceIDKey, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return SetTraceID(ctx, traceID), traceID
}
