package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	assert.Equal(t,
		"HET Seminar | Dark Matter Beyond WIMPs",
		cleanTitle("HET Seminar | Dark Matter Beyond WIMPs (December 17, 2025 12:00pm)"),
	)
	assert.Equal(t, "No Date Suffix Here", cleanTitle("No Date Suffix Here"))
}

func TestTitlecase(t *testing.T) {
	assert.Equal(t, "The Physics of the Early Universe", titlecase("the physics of the early universe"))
	assert.Equal(t, "A Talk About It", titlecase("a talk about it"))
	assert.Equal(t, "", titlecase(""))
}

func TestCleanDescription(t *testing.T) {
	got := cleanDescription(`<![CDATA[<p>Speaker: Jane Doe</p><br/>Details]]>`)
	assert.Equal(t, "Speaker: Jane DoeDetails", got)
}

func TestExtractZoomURL(t *testing.T) {
	desc := "Join us online: https://umich.zoom.us/j/98765?pwd=abc or in person."
	assert.Equal(t, "https://umich.zoom.us/j/98765?pwd=abc", extractZoomURL(desc))
	assert.Equal(t, "", extractZoomURL("no links here"))
}

func TestExtractLocation(t *testing.T) {
	assert.Equal(t, "West Hall", extractLocation("In-person: West Hall, Room 340"))
	assert.Equal(t, "Randall Lab", extractLocation("In-Person: Randall Lab\nZoom: https://zoom.us/j/1"))
	assert.Equal(t, "", extractLocation("fully remote event"))
}
