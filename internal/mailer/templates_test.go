package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBadgeEmail(t *testing.T) {
	subject, html, err := renderBadgeEmail("grace@example.com", "Grace Hopper", "GopherCon 2025", "https://store.example/badge.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Your badge for GopherCon 2025", subject)
	assert.Contains(t, html, "Grace Hopper")
	assert.Contains(t, html, `href="https://store.example/badge.pdf"`)
}

func TestRenderLetterEmail(t *testing.T) {
	subject, html, err := renderLetterEmail("grace@example.com", "Grace Hopper", "GopherCon 2025", "https://store.example/letter.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Your visa invitation letter for GopherCon 2025", subject)
	assert.Contains(t, html, "visa invitation letter")
	assert.Contains(t, html, `href="https://store.example/letter.pdf"`)
}

func TestRenderBadgeEmail_NameFallsBackToAddress(t *testing.T) {
	_, html, err := renderBadgeEmail("grace.hopper@example.com", "  ", "GopherCon 2025", "https://ok.example")
	require.NoError(t, err)
	assert.Contains(t, html, "Grace Hopper")
}

func TestRenderEscapesHTML(t *testing.T) {
	_, html, err := renderBadgeEmail("x@example.com", "<script>alert(1)</script>", "Event", "https://ok.example")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
