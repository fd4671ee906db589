package apperr

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom_UnwrapsWrappedError(t *testing.T) {
	err := errors.Wrap(Conflict("SKU %s already exists", "RICE-1KG"), "create product")

	appErr, ok := From(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "SKU RICE-1KG already exists", appErr.Detail)
}

func TestFrom_PlainError(t *testing.T) {
	_, ok := From(errors.New("boom"))
	assert.False(t, ok)
}
