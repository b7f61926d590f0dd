package imagekit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single upload call to the image service.
const DefaultTimeout = 15 * time.Second

// ErrTimeout reports that the image service did not answer within the deadline.
var ErrTimeout = errors.New("image service timeout")

// Client talks to an ImageKit-compatible upload API.
type Client struct {
	uploadURL  string
	privateKey string
	httpClient *http.Client
}

// NewClient constructs a client for the given upload endpoint.
func NewClient(uploadURL, privateKey string) (*Client, error) {
	if strings.TrimSpace(uploadURL) == "" {
		return nil, fmt.Errorf("image service upload URL is required")
	}
	if strings.TrimSpace(privateKey) == "" {
		return nil, fmt.Errorf("image service private key is required")
	}
	return &Client{
		uploadURL:  uploadURL,
		privateKey: privateKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}, nil
}

// UploadResult is the service response. Different SDK versions of the service
// return the public URL under different field names; PublicURL resolves them.
type UploadResult struct {
	FileID      string `json:"fileId"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	FilePath    string `json:"filePath"`
	FilePathURL string `json:"filePathUrl"`
}

// PublicURL returns the first populated URL field, preferring url, then
// filePath, then filePathUrl. Empty means the service returned no usable URL.
func (r UploadResult) PublicURL() string {
	if r.URL != "" {
		return r.URL
	}
	if r.FilePath != "" {
		return r.FilePath
	}
	return r.FilePathURL
}

// TransformSpec builds the pre-transformation parameter string: a 300x300
// face-focused crop with 0.75 zoom, plus background removal when requested.
func TransformSpec(removeBackground bool) string {
	spec := "w-300,h-300,fo-face,z-0.75"
	if removeBackground {
		spec += ",e-bgremove"
	}
	return spec
}

type errorResponse struct {
	Message string `json:"message"`
}

// Upload streams the file to the image service with the given destination
// folder and pre-transformation spec, returning the service's file record.
func (c *Client) Upload(ctx context.Context, r io.Reader, fileName, folder, transform string) (UploadResult, error) {
	if fileName == "" {
		fileName = "resume.jpg"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return UploadResult{}, fmt.Errorf("imagekit: build request: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResult{}, fmt.Errorf("imagekit: read file: %w", err)
	}
	if err := writer.WriteField("fileName", fileName); err != nil {
		return UploadResult{}, fmt.Errorf("imagekit: build request: %w", err)
	}
	if folder != "" {
		if err := writer.WriteField("folder", folder); err != nil {
			return UploadResult{}, fmt.Errorf("imagekit: build request: %w", err)
		}
	}
	if transform != "" {
		pre, err := json.Marshal(map[string]string{"pre": transform})
		if err != nil {
			return UploadResult{}, fmt.Errorf("imagekit: build request: %w", err)
		}
		if err := writer.WriteField("transformation", string(pre)); err != nil {
			return UploadResult{}, fmt.Errorf("imagekit: build request: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("imagekit: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("imagekit: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return UploadResult{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return UploadResult{}, fmt.Errorf("imagekit: upload: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("imagekit: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var svcErr errorResponse
		_ = json.Unmarshal(raw, &svcErr)
		if svcErr.Message != "" {
			return UploadResult{}, fmt.Errorf("imagekit: status %d: %s", resp.StatusCode, svcErr.Message)
		}
		return UploadResult{}, fmt.Errorf("imagekit: status %d", resp.StatusCode)
	}

	var result UploadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return UploadResult{}, fmt.Errorf("imagekit: parse response: %w", err)
	}
	return result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout")
}
