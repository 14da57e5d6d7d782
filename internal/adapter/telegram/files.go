// Package telegram fetches uploaded file bytes from the platform file API.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/telestash/node/internal/config"
	"github.com/telestash/node/internal/domain"
)

// FileFetcher resolves a platform file reference to a download path and
// fetches the raw bytes. All failures surface as domain.ErrUpload so the
// dispatcher can reply with a uniform retry-later message.
type FileFetcher struct {
	apiBase    string
	botToken   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewFileFetcher creates a FileFetcher from TelegramConfig.
func NewFileFetcher(cfg config.TelegramConfig, logger *slog.Logger) *FileFetcher {
	return &FileFetcher{
		apiBase:    cfg.APIBase,
		botToken:   cfg.BotToken,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "telegram"),
	}
}

// NewFileFetcherWithBase creates a FileFetcher with a custom API base (for testing).
func NewFileFetcherWithBase(apiBase, botToken string, logger *slog.Logger) *FileFetcher {
	return &FileFetcher{
		apiBase:    apiBase,
		botToken:   botToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.With("adapter", "telegram"),
	}
}

// getFileResponse is the platform's answer to a getFile call.
type getFileResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		FilePath string `json:"file_path"`
	} `json:"result"`
}

// Fetch downloads the bytes behind the given platform file id.
func (f *FileFetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	path, err := f.resolvePath(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return f.download(ctx, path)
}

// resolvePath asks the platform for the download path of the file id.
func (f *FileFetcher) resolvePath(ctx context.Context, fileID string) (string, error) {
	reqURL := fmt.Sprintf("%s/bot%s/getFile?file_id=%s",
		f.apiBase, f.botToken, url.QueryEscape(fileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("telegram: create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.log.ErrorContext(ctx, "getFile request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("telegram: getFile: %w", domain.ErrUpload)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("telegram: getFile status %d: %w", resp.StatusCode, domain.ErrUpload)
	}

	var gf getFileResponse
	if err := json.NewDecoder(resp.Body).Decode(&gf); err != nil {
		return "", fmt.Errorf("telegram: decode getFile: %w", domain.ErrUpload)
	}
	if !gf.OK || gf.Result.FilePath == "" {
		return "", fmt.Errorf("telegram: getFile rejected: %w", domain.ErrUpload)
	}

	return gf.Result.FilePath, nil
}

// download fetches the raw bytes behind the resolved file path.
func (f *FileFetcher) download(ctx context.Context, filePath string) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/file/bot%s/%s", f.apiBase, f.botToken, filePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("telegram: create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.log.ErrorContext(ctx, "file download failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("telegram: download: %w", domain.ErrUpload)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram: download status %d: %w", resp.StatusCode, domain.ErrUpload)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("telegram: read body: %w", domain.ErrUpload)
	}

	return data, nil
}
