package mediastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент файлового хранилища. Принимает бинарный payload и возвращает
// публичный URL; к корректности бронирований отношения не имеет.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента MediaStore
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload загружает файл и возвращает его публичный URL
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create form file: %v", ErrInternal, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("%w: failed to write file payload: %v", ErrInternal, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to finalize multipart body: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/files", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrUploadFailed, resp.StatusCode, string(respBody))
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if uploaded.URL == "" {
		return "", fmt.Errorf("%w: empty file URL in response", ErrInvalidResponse)
	}

	c.log.Info("Upload: file %s stored at %s", filename, uploaded.URL)
	return uploaded.URL, nil
}
