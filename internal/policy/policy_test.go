package policy

import (
	"os"
	"path/filepath"
	"testing"

	"shiptrack/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowAll(t *testing.T) {
	p := AllowAll()

	for _, from := range model.AllStatuses {
		for _, to := range model.AllStatuses {
			assert.True(t, p.Allowed(from, to))
		}
	}
}

func TestTablePolicy(t *testing.T) {
	p := NewTablePolicy(map[model.ShipmentStatus][]model.ShipmentStatus{
		model.StatusPending:   {model.StatusInTransit, model.StatusCanceled},
		model.StatusInTransit: {model.StatusOutForDelivery, model.StatusLost},
	})

	assert.True(t, p.Allowed(model.StatusPending, model.StatusInTransit))
	assert.True(t, p.Allowed(model.StatusPending, model.StatusCanceled))
	assert.True(t, p.Allowed(model.StatusInTransit, model.StatusLost))

	assert.False(t, p.Allowed(model.StatusPending, model.StatusDelivered))
	assert.False(t, p.Allowed(model.StatusDelivered, model.StatusPending))

	// Same-status writes are always allowed.
	assert.True(t, p.Allowed(model.StatusDelivered, model.StatusDelivered))
}

func TestLoadFromFile_EmptyPathAllowsAll(t *testing.T) {
	p, err := LoadFromFile("", zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, p.Allowed(model.StatusDelivered, model.StatusPending))
}

func TestLoadFromFile_ValidTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transitions.json")
	content := `{"pending": ["in_transit", "canceled"], "in_transit": ["delivered"]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	p, err := LoadFromFile(path, zerolog.Nop())
	require.NoError(t, err)

	assert.True(t, p.Allowed(model.StatusPending, model.StatusInTransit))
	assert.True(t, p.Allowed(model.StatusInTransit, model.StatusDelivered))
	assert.False(t, p.Allowed(model.StatusPending, model.StatusDelivered))
}

func TestLoadFromFile_UnknownStatus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transitions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pending": ["teleported"]}`), 0o600))

	_, err := LoadFromFile(path, zerolog.Nop())
	assert.Error(t, err)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/transitions.json", zerolog.Nop())
	assert.Error(t, err)
}

func TestLoadFromFile_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transitions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := LoadFromFile(path, zerolog.Nop())
	assert.Error(t, err)
}
