package server

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/reoring/jeomja"
	"github.com/reoring/jeomja/i18n"
)

type ctxKeyTranslator struct{}

// ContextWithTranslator attaches the request's marker translator.
func ContextWithTranslator(ctx context.Context, tr i18n.Translator) context.Context {
	return context.WithValue(ctx, ctxKeyTranslator{}, tr)
}

// TranslatorFromContext returns the request's translator, or the
// package-level one when none was attached.
func TranslatorFromContext(ctx context.Context) i18n.Translator {
	if tr, ok := ctx.Value(ctxKeyTranslator{}).(i18n.Translator); ok {
		return tr
	}
	return i18n.Current()
}

// language picks the translator from Accept-Language, falling back to the
// configured language when the header is absent.
func language(fallback string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := fallback
			if h := c.Request().Header.Get("Accept-Language"); h != "" {
				lang = i18n.Match(h)
			}
			c.Response().Header().Set("Content-Language", lang)
			ctx := ContextWithTranslator(c.Request().Context(), i18n.For(lang))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelWarn
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			}
			log.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

// IssueDTO is the wire shape of a jeomja.Issue.
type IssueDTO struct {
	Path     string         `json:"path"`
	Code     string         `json:"code"`
	Title    string         `json:"title"`
	Message  string         `json:"message,omitempty"`
	Offset   int64          `json:"offset"`
	Fragment string         `json:"fragment,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
}

func issuesDTO(tr i18n.Translator, iss jeomja.Issues) []IssueDTO {
	out := make([]IssueDTO, 0, len(iss))
	for _, it := range iss {
		data := map[string]string{"cell": it.InputFragment, "jamo": it.InputFragment}
		out = append(out, IssueDTO{
			Path:     it.Path,
			Code:     it.Code,
			Title:    tr.Message(it.Code, data),
			Message:  it.Message,
			Offset:   it.Offset,
			Fragment: it.InputFragment,
			Params:   it.Params,
		})
	}
	return out
}

// ErrorPayload shapes Issues for JSON error responses.
func ErrorPayload(tr i18n.Translator, iss jeomja.Issues) map[string]any {
	return map[string]any{"issues": issuesDTO(tr, iss)}
}
