package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/red-movilidad/red-cli/internal/api"
	"github.com/red-movilidad/red-cli/internal/display"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index.html", "searchroute.html", "searchbus.html", "searchbip.html"}

var templateFuncs = template.FuncMap{
	"sub": func(a, b int) int { return a - b },
	"last": func(cells []string) string {
		if len(cells) == 0 {
			return ""
		}
		return cells[len(cells)-1]
	},
	"phraseClass": func(cell string) string {
		switch {
		case cell == display.PhraseArriving:
			return "arriving"
		case strings.HasPrefix(cell, display.PhraseSoonPrefix):
			return "soon"
		}
		return ""
	},
}

// parsePages parses every page together with the shared layout and partials.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		files := []string{"templates/layout.html", "templates/partials.html", "templates/" + name}
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// navEntry is one landing card and navigation link
type navEntry struct {
	Path   string
	Title  string
	Detail string
}

var navEntries = []navEntry{
	{"/searchroute", "Busca tu recorrido", "Revisa el trazado y las paradas de cada recorrido en el mapa."},
	{"/searchbus", "Revisa cuando llega tu bus", "Consulta en tiempo real los buses que se aproximan a tu parada."},
	{"/searchbip", "Encuentra el punto de recarga bip más cercano", "Ingresa una dirección y te mostramos los puntos bip! cercanos."},
}

// pageData is the view-model shared by every page template.
type pageData struct {
	Title   string
	Active  string
	Nav     []navEntry
	TileURL string
	Refresh int

	Query  string
	Error  string
	Notice string

	Routes     []string
	Tables     []*display.Table
	Map        *display.Map
	Candidates []candidate
}

// candidate is a geocoder result offered as a link
type candidate struct {
	Address string
	Href    string
}

func (s *Server) newPage(title, active string) pageData {
	return pageData{Title: title, Active: active, Nav: navEntries, TileURL: s.opts.TileURL}
}

// renderPage executes a page template into a buffer first so that a
// template failure can still produce a clean 500.
func (s *Server) renderPage(c *gin.Context, status int, name string, data pageData) {
	tmpl, ok := s.pages[name]
	if !ok {
		c.String(http.StatusInternalServerError, "unknown page")
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Error().Err(err).Str("page", name).Msg("template execution failed")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a client error to an HTTP status for the JSON API and pages.
func statusFor(err error) int {
	var se *api.StatusError
	switch {
	case errors.Is(err, api.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrNoResults), errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &se):
		return http.StatusUnprocessableEntity
	case errors.Is(err, api.ErrTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// apiError writes a JSON error with the rider-facing message.
func apiError(c *gin.Context, err error, fallback string) {
	c.JSON(statusFor(err), ErrorResponse{Error: display.UserMessage(err, fallback)})
}
