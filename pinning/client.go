package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/realmhunter/nbctl/common"
	"github.com/realmhunter/nbctl/util/account"
)

const (
	DefaultEndpoint = "https://api.nft.storage"
	TokenVariable   = "NFTSTORAGE_API"
)

// Metadata is an ERC-1155 style token metadata document. Image is a
// local file path, uploaded alongside the metadata.
type Metadata struct {
	Name        string
	Description string
	Image       string
	Properties  map[string]interface{}
}

type StoreResult struct {
	IPNFT    string
	URL      string
	ImageURL string
}

// Client talks to an NFT.Storage compatible pinning service.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewClient(endpoint, token string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// NewClientFromEnv reads the api token from NFTSTORAGE_API.
func NewClientFromEnv(endpoint string) (*Client, error) {
	token := strings.TrimSpace(os.Getenv(TokenVariable))
	if token == "" {
		return nil, fmt.Errorf("%s is not set: %w", TokenVariable, account.ErrMissingCredential)
	}
	return NewClient(endpoint, token), nil
}

type storeResponse struct {
	OK    bool `json:"ok"`
	Value struct {
		IPNFT string `json:"ipnft"`
		URL   string `json:"url"`
		Data  struct {
			Image string `json:"image"`
		} `json:"data"`
	} `json:"value"`
	Error *struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) body(m Metadata) (*bytes.Buffer, string, error) {
	if m.Name == "" || m.Description == "" || m.Image == "" {
		return nil, "", fmt.Errorf("metadata needs a name, a description and an image")
	}
	image, err := os.ReadFile(m.Image)
	if err != nil {
		return nil, "", fmt.Errorf("couldn't read image: %w", err)
	}
	meta := map[string]interface{}{
		"name":        m.Name,
		"description": m.Description,
		// the service substitutes the uploaded file part of the same name
		"image": nil,
	}
	if len(m.Properties) > 0 {
		meta["properties"] = m.Properties
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, "", err
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if err := w.WriteField("meta", string(metaJSON)); err != nil {
		return nil, "", err
	}
	contentType := mime.TypeByExtension(filepath.Ext(m.Image))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(m.Image)))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// Store uploads the image and metadata and returns the metadata's ipfs
// url.
func (c *Client) Store(ctx context.Context, m Metadata) (StoreResult, error) {
	buf, contentType, err := c.body(m)
	if err != nil {
		return StoreResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/store", buf)
	if err != nil {
		return StoreResult{}, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.token)
	common.DebugPrintf("uploading %s (%d bytes) to %s", m.Image, buf.Len(), c.endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StoreResult{}, fmt.Errorf("couldn't reach pinning service: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return StoreResult{}, err
	}
	result := storeResponse{}
	if err := json.Unmarshal(body, &result); err != nil {
		return StoreResult{}, fmt.Errorf("pinning service answered %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode/100 != 2 || !result.OK {
		msg := resp.Status
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		return StoreResult{}, fmt.Errorf("pinning service rejected the upload: %s", msg)
	}
	return StoreResult{
		IPNFT:    result.Value.IPNFT,
		URL:      result.Value.URL,
		ImageURL: result.Value.Data.Image,
	}, nil
}
