package controller

import (
	"context"

	"ojarena/internal/arena/i18n"
	"ojarena/internal/arena/runlist"
	"ojarena/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const textsContextKey = "texts"

// LanguageMiddleware picks the text table for the request from its
// Accept-Language header.
func LanguageMiddleware(catalog *i18n.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		texts, tag := catalog.Match(c.GetHeader("Accept-Language"))
		c.Set(textsContextKey, texts)
		ctx := context.WithValue(c.Request.Context(), contextkey.Language, tag)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requestLanguage(c *gin.Context) (runlist.Texts, language.Tag) {
	tag := language.AmericanEnglish
	if v, ok := c.Request.Context().Value(contextkey.Language).(language.Tag); ok {
		tag = v
	}
	if v, ok := c.Get(textsContextKey); ok {
		if texts, ok := v.(runlist.Texts); ok {
			return texts, tag
		}
	}
	return runlist.Texts{}, tag
}
