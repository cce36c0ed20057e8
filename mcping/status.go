package mcping

import (
	"encoding/json"
	"strings"
)

// ServerStatus is the decoded status response of a server.
type ServerStatus struct {
	Version     StatusVersion `json:"version"`
	Players     StatusPlayers `json:"players"`
	Description Description   `json:"description"`
	// Favicon is a base64 data URI, empty when the server has none
	Favicon string   `json:"favicon"`
	ModInfo *ModInfo `json:"modinfo"`
}

type StatusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type StatusPlayers struct {
	Max    int `json:"max"`
	Online int `json:"online"`
}

// ModInfo is reported by Forge-family servers.
type ModInfo struct {
	Type    string `json:"type"`
	ModList []Mod  `json:"modList"`
}

type Mod struct {
	ID      string `json:"modid"`
	Version string `json:"version"`
}

// Description is the server MOTD, flattened to plain text. Servers send it
// either as a bare string or as a chat component tree; either way legacy §x
// formatting codes are stripped.
type Description struct {
	Text string
}

func (d *Description) UnmarshalJSON(data []byte) error {
	var component chatComponent
	if err := json.Unmarshal(data, &component); err != nil {
		return err
	}
	d.Text = stripFormatting(component.flatten())
	return nil
}

func (d Description) String() string {
	return d.Text
}

type chatComponent struct {
	Text  string
	Extra []chatComponent
}

func (c *chatComponent) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		c.Text = plain
		return nil
	}
	var obj struct {
		Text  string          `json:"text"`
		Extra []chatComponent `json:"extra"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	c.Text = obj.Text
	c.Extra = obj.Extra
	return nil
}

// flatten concatenates a component's text with its extra spans, depth-first.
func (c chatComponent) flatten() string {
	var sb strings.Builder
	sb.WriteString(c.Text)
	for _, extra := range c.Extra {
		sb.WriteString(extra.flatten())
	}
	return sb.String()
}

// stripFormatting removes legacy formatting codes: a § and the character
// following it.
func stripFormatting(s string) string {
	var sb strings.Builder
	skip := false
	for _, r := range s {
		if skip {
			skip = false
			continue
		}
		if r == '§' {
			skip = true
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
