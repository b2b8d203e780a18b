package view

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestRenderKnownPage(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	data := map[string]any{
		"Form":   map[string]string{"Login": ""},
		"Errors": map[string]string{},
	}
	err = engine.Render(rec, "pages/login.html", TemplateData{Title: "Entrar", CSRFToken: "tok", Data: data})
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "Entrar")
	assert.Contains(t, rec.Body.String(), `name="csrf_token"`)
}

func TestRenderUnknownPage(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = engine.Render(rec, "pages/missing.html", TemplateData{})
	assert.Error(t, err)
}
