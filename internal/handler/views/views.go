// Package views holds the templ components rendered by the handlers.
package views

import (
	"strconv"

	"github.com/pavelanni/eduimpact/internal/model"
)

var sourceMessages = map[model.NarrativeSource]string{
	model.SourceAI:            "SourceAI",
	model.SourceNotConfigured: "SourceNotConfigured",
	model.SourceUnavailable:   "SourceUnavailable",
	model.SourceRules:         "SourceRules",
}

func pageURL(n int) string {
	return "/archive?page=" + strconv.Itoa(n)
}

func scoreText(s float64) string {
	return strconv.FormatFloat(s, 'f', 1, 64)
}
