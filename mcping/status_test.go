package mcping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptionPlainString(t *testing.T) {
	var status ServerStatus
	require.NoError(t, json.Unmarshal([]byte(`{"description": "A Minecraft Server"}`), &status))
	assert.Equal(t, "A Minecraft Server", status.Description.Text)
}

func TestDescriptionStripsFormattingCodes(t *testing.T) {
	var d Description
	require.NoError(t, json.Unmarshal([]byte(`"§6§lGolden §rServer§"`), &d))
	// each § consumes the following character, a trailing § consumes nothing
	assert.Equal(t, "Golden Server", d.Text)
}

func TestDescriptionObjectWithExtra(t *testing.T) {
	raw := `{
		"text": "Welcome ",
		"extra": [
			{"text": "to §bthe ", "extra": ["nested "]},
			"server"
		]
	}`
	var d Description
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	assert.Equal(t, "Welcome to the nested server", d.Text)
}

func TestServerStatusDecode(t *testing.T) {
	raw := `{
		"version": {"name": "1.20.1", "protocol": 763},
		"players": {"max": 100, "online": 5},
		"description": {"text": "§aHello"},
		"favicon": "data:image/png;base64,AAAA",
		"modinfo": {"type": "FML", "modList": [{"modid": "examplemod", "version": "1.0"}]}
	}`
	var status ServerStatus
	require.NoError(t, json.Unmarshal([]byte(raw), &status))
	assert.Equal(t, "1.20.1", status.Version.Name)
	assert.Equal(t, 763, status.Version.Protocol)
	assert.Equal(t, 5, status.Players.Online)
	assert.Equal(t, 100, status.Players.Max)
	assert.Equal(t, "Hello", status.Description.Text)
	assert.Equal(t, "data:image/png;base64,AAAA", status.Favicon)
	require.NotNil(t, status.ModInfo)
	require.Len(t, status.ModInfo.ModList, 1)
	assert.Equal(t, "examplemod", status.ModInfo.ModList[0].ID)
}
