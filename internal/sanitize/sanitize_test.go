package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanStripsTags(t *testing.T) {
	assert.Equal(t, "Ana", Clean("<b>Ana</b>"))
	assert.Equal(t, "hello there", Clean(`<a href="x">hello</a> there`))
}

func TestCleanTrimsWhitespace(t *testing.T) {
	assert.Equal(t, "Ana", Clean("  Ana \n"))
}

func TestCleanMarkupOnlyBecomesEmpty(t *testing.T) {
	assert.Equal(t, "", Clean("<script></script>"))
	assert.Equal(t, "", Clean("   <br/> "))
}

func TestCleanLeavesPlainTextAlone(t *testing.T) {
	assert.Equal(t, "oi :)", Clean("oi :)"))
}
