package badge

import (
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeBadge(t *testing.T) {
	uri, err := QRDataURI("https://scan.example?token=abc")
	require.NoError(t, err)

	html, err := ComposeBadge(BadgeData{
		EventName:    "GopherCon 2025",
		FullName:     "Grace Hopper",
		Organization: "US Navy",
		StartDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC),
		Venue:        "Convention Center",
		QRDataURI:    template.URL(uri),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "GopherCon 2025")
	assert.Contains(t, html, "Grace Hopper")
	assert.Contains(t, html, "US Navy")
	assert.Contains(t, html, "1 Jul 2025 - 3 Jul 2025")
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, "92mm 132mm")
}

func TestComposeBadge_EscapesFields(t *testing.T) {
	html, err := ComposeBadge(BadgeData{
		EventName: "<script>alert(1)</script>",
		FullName:  "Grace",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert")
}

func TestFormatDateRange(t *testing.T) {
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "", formatDateRange(time.Time{}, time.Time{}))
	assert.Equal(t, "1 Jul 2025", formatDateRange(day, day))
	assert.Equal(t, "1 Jul 2025", formatDateRange(day, time.Time{}))
}

func TestRenderQR(t *testing.T) {
	png, err := RenderQR("https://scan.example?token=abc")
	require.NoError(t, err)
	// PNG magic bytes.
	assert.True(t, strings.HasPrefix(string(png), "\x89PNG"))
}
