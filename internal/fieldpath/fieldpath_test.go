package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlusExtendsBothPaths(t *testing.T) {
	p := Root.Plus("seasons").Plus("awards")
	assert.Equal(t, "seasons.awards", p.FromRoot())
	assert.Equal(t, "seasons.awards", p.FromParent())
}

func TestNestedResetsFromParentOnly(t *testing.T) {
	p := Root.Plus("seasons").Plus("awards")
	n := p.Nested().Plus("name")

	assert.Equal(t, "seasons.awards.name", n.FromRoot())
	assert.Equal(t, "name", n.FromParent())
}

func TestPlusIsImmutable(t *testing.T) {
	base := Root.Plus("seasons")
	a := base.Plus("awards")
	b := base.Plus("episodes")

	assert.Equal(t, "seasons", base.FromRoot())
	assert.Equal(t, "seasons.awards", a.FromRoot())
	assert.Equal(t, "seasons.episodes", b.FromRoot())
}

func TestCountsPathAtRoot(t *testing.T) {
	assert.Equal(t, "__counts", Root.CountsPath())
}

func TestCountsPathJoinsWithPipe(t *testing.T) {
	p := Root.Plus("seasons").Plus("awards")
	assert.Equal(t, "__counts.seasons|awards", p.CountsPath())
}

func TestCountsPathIsRelativeToNestedBoundary(t *testing.T) {
	// Inside a nested scope, every field reference - including a counts
	// reference - is relative to the nested boundary, not the document
	// root, since that's how the datastore scopes field names within a
	// nested query.
	p := Root.Plus("seasons").Nested().Plus("awards")
	assert.Equal(t, "__counts.awards", p.CountsPath())
}
