//go:build unit

package patch_test

import (
	"testing"

	"retail-core/internal/pkg/patch"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "card", patch.Coalesce(nil, "card"))
	assert.Equal(t, "cash", patch.Coalesce(patch.Ptr("cash"), "card"))
}

func TestTrimmedOrNil(t *testing.T) {
	assert.Nil(t, patch.TrimmedOrNil(nil))
	assert.Nil(t, patch.TrimmedOrNil(patch.Ptr("   ")))
	assert.Equal(t, "SAVE10", *patch.TrimmedOrNil(patch.Ptr(" SAVE10 ")))
}
