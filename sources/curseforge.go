package sources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/leocov-dev/modgrab/config"
	"github.com/leocov-dev/modgrab/core"
)

const (
	cfApiServer = "https://api.curseforge.com"
	cfGameID    = 432 // Minecraft
)

// ModloaderType is the CurseForge mod loader enumeration, used both as a query
// parameter and in latest-files index entries.
type ModloaderType int

const (
	ModloaderTypeAny ModloaderType = iota
	ModloaderTypeForge
	ModloaderTypeCauldron
	ModloaderTypeLiteLoader
	ModloaderTypeFabric
	ModloaderTypeQuilt
	ModloaderTypeNeoForge
)

// ModloaderIds are lowercase loader names indexed by ModloaderType.
var ModloaderIds = []string{"", "forge", "cauldron", "liteloader", "fabric", "quilt", "neoforge"}

// CurseForge file dependency relation types
const (
	cfRelationEmbedded     = 1
	cfRelationOptional     = 2
	cfRelationRequired     = 3
	cfRelationTool         = 4
	cfRelationIncompatible = 5
)

// CurseForge release channels
const (
	cfChannelRelease = 1
	cfChannelBeta    = 2
	cfChannelAlpha   = 3
)

// Hash algorithm codes used in file hash records
const (
	cfHashAlgoSha1 = 1
	cfHashAlgoMd5  = 2
)

type CfModInfo struct {
	ID                uint32         `json:"id"`
	GameID            uint32         `json:"gameId"`
	Name              string         `json:"name"`
	Slug              string         `json:"slug"`
	Summary           string         `json:"summary"`
	ClassID           uint32         `json:"classId"`
	PrimaryCategoryID uint32         `json:"primaryCategoryId"`
	Authors           []CfAuthor     `json:"authors"`
	Links             CfModLinks     `json:"links"`
	LatestFiles       []CfModFileInfo `json:"latestFiles"`
	// LatestFilesIndexes is the lightweight per-file index: one row per
	// (file, game version) pair, without hashes or dependencies
	LatestFilesIndexes []CfFileIndexEntry `json:"latestFilesIndexes"`
}

type CfAuthor struct {
	Name string `json:"name"`
}

type CfModLinks struct {
	WebsiteURL string `json:"websiteUrl"`
}

type CfFileIndexEntry struct {
	GameVersion string        `json:"gameVersion"`
	FileID      uint32        `json:"fileId"`
	Filename    string        `json:"filename"`
	ReleaseType int           `json:"releaseType"`
	ModLoader   ModloaderType `json:"modLoader"`
}

type CfModFileInfo struct {
	ID           uint32            `json:"id"`
	ModID        uint32            `json:"modId"`
	FileName     string            `json:"fileName"`
	DisplayName  string            `json:"displayName"`
	ReleaseType  int               `json:"releaseType"`
	FileLength   int64             `json:"fileLength"`
	DownloadURL  string            `json:"downloadUrl"`
	// GameVersions mixes game versions and loader names ("1.20.1", "Fabric")
	GameVersions []string          `json:"gameVersions"`
	Dependencies []CfDependency    `json:"dependencies"`
	Hashes       []CfHash          `json:"hashes"`
	Fingerprint  uint32            `json:"fileFingerprint"`
}

type CfDependency struct {
	ModID        uint32 `json:"modId"`
	RelationType int    `json:"relationType"`
}

type CfHash struct {
	Value string `json:"value"`
	Algo  int    `json:"algo"`
}

// GetBestHash returns the most preferred hash available for this file, with its
// format name; falls back to the murmur2 fingerprint when no digest is present.
func (f CfModFileInfo) GetBestHash() (hash string, hashFormat string) {
	for _, h := range f.Hashes {
		if h.Algo == cfHashAlgoSha1 {
			return h.Value, "sha1"
		}
	}
	for _, h := range f.Hashes {
		if h.Algo == cfHashAlgoMd5 {
			return h.Value, "md5"
		}
	}
	return strconv.FormatUint(uint64(f.Fingerprint), 10), "murmur2"
}

type CfCategory struct {
	ID      uint32 `json:"id"`
	ClassID uint32 `json:"classId"`
	Slug    string `json:"slug"`
	IsClass bool   `json:"isClass"`
}

type cfClient struct {
	server     string
	httpClient *http.Client
}

var cfDefaultClient = &cfClient{server: cfApiServer, httpClient: &http.Client{}}

func GetCurseforgeClient() *cfClient {
	return cfDefaultClient
}

func (c *cfClient) makeRequest(method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, c.server+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", core.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// The API key is optional; requests without one are rate-limited harder
	if key, err := config.DecodeCfApiKey(); err == nil {
		req.Header.Set("x-api-key", key)
	}
	return req, nil
}

func (c *cfClient) get(endpoint string, target interface{}) error {
	req, err := c.makeRequest("GET", endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, target)
}

func (c *cfClient) post(endpoint string, body interface{}, target interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := c.makeRequest("POST", endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	return c.do(req, target)
}

func (c *cfClient) do(req *http.Request, target interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("curseforge api returned status %v for %s", resp.StatusCode, req.URL.Path)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

func (c *cfClient) GetModInfo(modID uint32) (CfModInfo, error) {
	var resp struct {
		Data CfModInfo `json:"data"`
	}
	err := c.get(fmt.Sprintf("/v1/mods/%d", modID), &resp)
	return resp.Data, err
}

func (c *cfClient) GetModInfoMultiple(modIDs []uint32) ([]CfModInfo, error) {
	var resp struct {
		Data []CfModInfo `json:"data"`
	}
	err := c.post("/v1/mods", map[string]interface{}{"modIds": modIDs}, &resp)
	return resp.Data, err
}

func (c *cfClient) GetFileInfo(modID, fileID uint32) (CfModFileInfo, error) {
	var resp struct {
		Data CfModFileInfo `json:"data"`
	}
	err := c.get(fmt.Sprintf("/v1/mods/%d/files/%d", modID, fileID), &resp)
	return resp.Data, err
}

func (c *cfClient) GetFileInfoMultiple(fileIDs []uint32) ([]CfModFileInfo, error) {
	var resp struct {
		Data []CfModFileInfo `json:"data"`
	}
	err := c.post("/v1/mods/files", map[string]interface{}{"fileIds": fileIDs}, &resp)
	return resp.Data, err
}

// GetModFiles lists a mod's files, optionally filtered server-side by one game
// version and loader.
func (c *cfClient) GetModFiles(modID uint32, gameVersion string, loader ModloaderType) ([]CfModFileInfo, error) {
	params := url.Values{}
	params.Set("pageSize", "50")
	if gameVersion != "" {
		params.Set("gameVersion", gameVersion)
	}
	if loader != ModloaderTypeAny {
		params.Set("modLoaderType", strconv.Itoa(int(loader)))
	}
	var resp struct {
		Data []CfModFileInfo `json:"data"`
	}
	err := c.get(fmt.Sprintf("/v1/mods/%d/files?%s", modID, params.Encode()), &resp)
	return resp.Data, err
}

func (c *cfClient) GetSearch(searchText, slug string, classID, categoryID uint32, gameVersion string, loader ModloaderType) ([]CfModInfo, error) {
	params := url.Values{}
	params.Set("gameId", strconv.Itoa(cfGameID))
	params.Set("pageSize", "10")
	if searchText != "" {
		params.Set("searchFilter", searchText)
	}
	if slug != "" {
		params.Set("slug", slug)
	}
	if classID != 0 {
		params.Set("classId", strconv.FormatUint(uint64(classID), 10))
	}
	if categoryID != 0 {
		params.Set("categoryId", strconv.FormatUint(uint64(categoryID), 10))
	}
	if gameVersion != "" {
		params.Set("gameVersion", gameVersion)
	}
	if loader != ModloaderTypeAny {
		params.Set("modLoaderType", strconv.Itoa(int(loader)))
	}
	var resp struct {
		Data []CfModInfo `json:"data"`
	}
	err := c.get("/v1/mods/search?"+params.Encode(), &resp)
	return resp.Data, err
}

func (c *cfClient) GetCategories() ([]CfCategory, error) {
	var resp struct {
		Data []CfCategory `json:"data"`
	}
	err := c.get(fmt.Sprintf("/v1/categories?gameId=%d", cfGameID), &resp)
	return resp.Data, err
}
